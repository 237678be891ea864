package handlers

import "strconv"

// FAQSection groups questions under a heading; all text is translation keys.
type FAQSection struct {
	TitleKey string
	Items    []FAQItem
}

// FAQItem is a question/answer key pair.
type FAQItem struct {
	ID          string
	QuestionKey string
	AnswerKey   string
}

// FAQ lists the sections in display order. Question 8 was retired and has no keys.
var FAQ = []FAQSection{
	faqSection("faq.generalTitle", 1, 2, 3, 4),
	faqSection("faq.productTitle", 5, 6, 7),
	faqSection("faq.orderingTitle", 9, 10, 11, 12),
	faqSection("faq.sustainabilityTitle", 13, 14, 15),
}

func faqSection(titleKey string, numbers ...int) FAQSection {
	s := FAQSection{TitleKey: titleKey}
	for _, n := range numbers {
		id := strconv.Itoa(n)
		s.Items = append(s.Items, FAQItem{
			ID:          id,
			QuestionKey: "faq.q" + id,
			AnswerKey:   "faq.a" + id,
		})
	}
	return s
}
