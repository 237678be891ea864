package catalog

import "github.com/shopspring/decimal"

var standardPrice = decimal.RequireFromString("8.00")

func meal(id int, name, image string, cat Category, featured bool, desc string) Product {
	return Product{
		ID:          id,
		Name:        name,
		Description: desc,
		Image:       image,
		Price:       standardPrice,
		Category:    cat,
		InStock:     true,
		Featured:    featured,
	}
}

var staticProducts = []Product{
	meal(1, "Thai Basil Chicken", "/assets/food/roozchickn.jpg", CategoryAsian, true, "Aromatic Thai basil chicken with jasmine rice"),
	meal(2, "Mediterranean Bowl", "/assets/food/sallad.jpg", CategoryMediterranean, true, "Fresh Mediterranean vegetables with quinoa and feta"),
	meal(3, "Butter Chicken", "/assets/food/roozchickn.jpg", CategoryIndian, true, "Creamy tomato-based curry with tender chicken"),
	meal(4, "Beef Bulgogi", "/assets/food/mix.jpg", CategoryAsian, false, "Korean marinated beef with steamed rice"),
	meal(5, "Chicken Tikka Masala", "/assets/food/roozchickn.jpg", CategoryIndian, true, "Classic tikka masala with basmati rice"),
	meal(6, "Teriyaki Salmon", "/assets/food/mix.jpg", CategoryAsian, false, "Glazed salmon with teriyaki sauce and vegetables"),
	meal(7, "Pasta Primavera", "/assets/food/sallad.jpg", CategoryItalian, false, "Fresh vegetables with penne in garlic sauce"),
	meal(8, "Mexican Rice Bowl", "/assets/food/mix.jpg", CategoryMexican, true, "Spiced rice with black beans and salsa"),
	meal(9, "Green Curry Shrimp", "/assets/food/mix.jpg", CategoryAsian, false, "Thai green curry with shrimp and vegetables"),
	meal(10, "Chicken Alfredo", "/assets/food/roozchickn.jpg", CategoryItalian, false, "Creamy alfredo pasta with grilled chicken"),
	meal(11, "Lamb Biryani", "/assets/food/mix.jpg", CategoryIndian, true, "Aromatic spiced rice with tender lamb"),
	meal(12, "Vegetable Stir Fry", "/assets/food/sallad.jpg", CategoryAsian, false, "Mixed vegetables in savory sauce with rice"),
	meal(13, "Sandwich Combo", "/assets/food/sandwich-combo.jpg", CategoryAmerican, false, "Sandwich with fries and fresh salad"),
	meal(14, "Classic Sandwich", "/assets/food/sandichs.jpg", CategoryAmerican, true, "Fresh made sandwich with your choice of fillings"),
	meal(15, "Kung Pao Chicken", "/assets/food/roozchickn.jpg", CategoryAsian, true, "Spicy chicken with peanuts and vegetables"),
	meal(16, "Dessert Special", "/assets/food/desert.jpg", CategoryDessert, false, "Sweet treat to finish your meal"),
}

var staticCategories = []CategoryInfo{
	{ID: CategoryAll, Name: "All Meals", LabelKey: "categories.allMeals"},
	{ID: CategoryAsian, Name: "Asian Cuisine", LabelKey: "categories.asianCuisine"},
	{ID: CategoryIndian, Name: "Indian Flavors", LabelKey: "categories.indianFlavors"},
	{ID: CategoryMediterranean, Name: "Mediterranean", LabelKey: "categories.mediterranean"},
	{ID: CategoryItalian, Name: "Italian Classics", LabelKey: "categories.italianClassics"},
	{ID: CategoryMexican, Name: "Mexican Favorites", LabelKey: "categories.mexicanFavorites"},
	{ID: CategoryAmerican, Name: "American Comfort", LabelKey: "categories.americanComfort"},
	{ID: CategoryDessert, Name: "Desserts", LabelKey: "categories.desserts"},
}

// English falls back to the product records themselves.
var staticTranslations = Translations{
	"ar": {
		1:  {Name: "دجاج بالريحان التايلندي", Description: "دجاج عطري بالريحان التايلندي مع أرز الياسمين"},
		2:  {Name: "طبق البحر المتوسط", Description: "خضروات متوسطية طازجة مع الكينوا وجبن الفيتا"},
		3:  {Name: "دجاج بالزبدة", Description: "كاري كريمي بالطماطم مع دجاج طري"},
		4:  {Name: "بولغوغي باللحم", Description: "لحم بقري متبل على الطريقة الكورية مع أرز مطهو على البخار"},
		5:  {Name: "دجاج تكا ماسالا", Description: "تكا ماسالا الكلاسيكية مع أرز بسمتي"},
		6:  {Name: "سلمون ترياكي", Description: "سلمون مزجج بصلصة الترياكي مع الخضروات"},
		7:  {Name: "باستا بريمافيرا", Description: "خضروات طازجة مع البيني بصلصة الثوم"},
		8:  {Name: "طبق الأرز المكسيكي", Description: "أرز متبل مع الفاصوليا السوداء والصلصة"},
		9:  {Name: "روبيان بالكاري الأخضر", Description: "كاري تايلندي أخضر مع الروبيان والخضروات"},
		10: {Name: "دجاج ألفريدو", Description: "باستا ألفريدو الكريمية مع دجاج مشوي"},
		11: {Name: "برياني باللحم", Description: "أرز متبل عطري مع لحم ضأن طري"},
		12: {Name: "خضروات مقلية", Description: "خضروات مشكلة بصلصة شهية مع الأرز"},
		13: {Name: "وجبة الساندويتش", Description: "ساندويتش مع بطاطس مقلية وسلطة طازجة"},
		14: {Name: "ساندويتش كلاسيكي", Description: "ساندويتش طازج بالحشوة التي تختارها"},
		15: {Name: "دجاج كونغ باو", Description: "دجاج حار مع الفول السوداني والخضروات"},
		16: {Name: "حلى مميز", Description: "حلوى لذيذة لختام وجبتك"},
	},
}
