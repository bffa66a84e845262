package catalog

const assetsPath = "assets/"

// Products is the dashboard catalog. Histories are synthesized on
// normalization from each product's USD range.
func Products() []LocalRecord {
	return []LocalRecord{
		{
			ID: "p1", Name: "Nike Air Force 1 White", Brand: "Nike",
			Price: 950, PriceLow: 85, PriceHigh: 120,
			ImageURL: assetsPath + "nike-air-force-1.png",
		},
		{
			ID: "p2", Name: "Nike Vomero 5 Silver Grey", Brand: "Nike",
			Price: 2200, PriceLow: 180, PriceHigh: 240,
			ImageURL: assetsPath + "nike-vomero-5.png",
		},
		{
			ID: "p3", Name: "New Balance 9060 Phantom", Brand: "New Balance",
			Price: 1850, PriceLow: 150, PriceHigh: 220,
			ImageURL: assetsPath + "new-balance-9060.png",
		},
		{
			ID: "p4", Name: "Air Jordan 1 Retro High Chicago", Brand: "Nike",
			Price: 2850, PriceLow: 280, PriceHigh: 450,
			ImageURL: "https://placehold.co/400x300/8b0000/ffffff?text=AJ1+Chicago",
			Variations: []LocalRecord{
				{
					ID: "p4-v1", Name: "Chicago (2023)", Brand: "Nike",
					Price: 2900, PriceLow: 285, PriceHigh: 460,
					ImageURL: "https://placehold.co/400x300/8b0000/ffffff?text=Chicago+23",
				},
				{
					ID: "p4-v2", Name: "Lost & Found", Brand: "Nike",
					Price: 3100, PriceLow: 300, PriceHigh: 480,
					ImageURL: "https://placehold.co/400x300/5c4033/ffffff?text=Lost+Found",
				},
			},
		},
		{
			ID: "p5", Name: "Nike Dunk Low Panda", Brand: "Nike",
			Price: 1200, PriceLow: 100, PriceHigh: 160,
			ImageURL: "https://placehold.co/400x300/333333/ffffff?text=Dunk+Panda",
			Variations: []LocalRecord{
				{
					ID: "p5-v1", Name: "Black & White", Brand: "Nike",
					Price: 1150, PriceLow: 95, PriceHigh: 155,
					ImageURL: "https://placehold.co/400x300/333333/ffffff?text=Dunk+B%26W",
				},
				{
					ID: "p5-v2", Name: "University Blue", Brand: "Nike",
					Price: 1280, PriceLow: 105, PriceHigh: 165,
					ImageURL: "https://placehold.co/400x300/1e3a5f/ffffff?text=Dunk+Blue",
				},
			},
		},
		{
			ID: "p6", Name: "Yeezy Boost 350 V2 Zebra", Brand: "Adidas",
			Price: 3200, PriceLow: 280, PriceHigh: 380,
			ImageURL: "https://placehold.co/400x300/1a1a1a/ffffff?text=350+Zebra",
		},
		{
			ID: "p7", Name: "Travis Scott x Air Jordan 1 Low", Brand: "Nike",
			Price: 14500, PriceLow: 1200, PriceHigh: 1600,
			ImageURL: "https://placehold.co/400x300/4a3728/ffffff?text=TS+AJ1",
		},
		{
			ID: "p8", Name: "New Balance 550 White Green", Brand: "New Balance",
			Price: 1850, PriceLow: 140, PriceHigh: 200,
			ImageURL: "https://placehold.co/400x300/1a3d1a/ffffff?text=550",
		},
		{
			ID: "p9", Name: "Adidas Samba White", Brand: "Adidas",
			Price: 780, PriceLow: 65, PriceHigh: 95,
			ImageURL: "https://placehold.co/400x300/ffffff/1a1a1a?text=Samba",
		},
		{
			ID: "p10", Name: "Salomon XT-6 Black", Brand: "Salomon",
			Price: 1950, PriceLow: 160, PriceHigh: 220,
			ImageURL: "https://placehold.co/400x300/1a1a1a/ffffff?text=XT-6",
		},
		{
			ID: "p11", Name: "Asics Gel-Lyte III", Brand: "Asics",
			Price: 1100, PriceLow: 90, PriceHigh: 140,
			ImageURL: "https://placehold.co/400x300/2d2d2d/ffffff?text=Gel-Lyte",
		},
		{
			ID: "p12", Name: "Converse Chuck 70 High", Brand: "Converse",
			Price: 650, PriceLow: 55, PriceHigh: 85,
			ImageURL: "https://placehold.co/400x300/2c2c2c/ffffff?text=Chuck+70",
		},
	}
}

// Inventory is the offline data set used when the hosted database is
// unavailable or returns nothing.
func Inventory() []InventoryRecord {
	return []InventoryRecord{
		{ID: 1, Name: "Air Jordan 1 Retro High OG Chicago", Brand: "Nike", Image: "https://placehold.co/400x400/8b0000/ffffff?text=AJ1+Chicago", RetailPrice: 180, ResellPrice: 420},
		{ID: 2, Name: "Air Jordan 4 Retro Black Cat", Brand: "Nike", Image: "https://placehold.co/400x400/1a1a1a/ffffff?text=AJ4+Black+Cat", RetailPrice: 200, ResellPrice: 380},
		{ID: 3, Name: "Nike Dunk Low Panda", Brand: "Nike", Image: "https://placehold.co/400x400/333333/ffffff?text=Dunk+Panda", RetailPrice: 100, ResellPrice: 145},
		{ID: 4, Name: "Yeezy Slide Pure", Brand: "Adidas", Image: "https://placehold.co/400x400/e8e8e8/333333?text=Yeezy+Slide", RetailPrice: 55, ResellPrice: 95},
		{ID: 5, Name: "Adidas Samba OG White", Brand: "Adidas", Image: "https://placehold.co/400x400/ffffff/1a1a1a?text=Samba", RetailPrice: 80, ResellPrice: 120},
		{ID: 6, Name: "New Balance 550 White Green", Brand: "New Balance", Image: "https://placehold.co/400x400/1a3d1a/ffffff?text=550", RetailPrice: 130, ResellPrice: 195},
		{ID: 7, Name: "New Balance 9060 Phantom", Brand: "New Balance", Image: "https://placehold.co/400x400/2d2d2d/ffffff?text=9060", RetailPrice: 150, ResellPrice: 220},
		{ID: 8, Name: "Air Jordan 1 Low Shadow", Brand: "Nike", Image: "https://placehold.co/400x400/3d3d3d/ffffff?text=AJ1+Low", RetailPrice: 110, ResellPrice: 165},
		{ID: 9, Name: "Nike Air Force 1 White", Brand: "Nike", Image: "https://placehold.co/400x400/ffffff/333?text=AF1", RetailPrice: 90, ResellPrice: 115},
		{ID: 10, Name: "Yeezy Boost 350 V2 Zebra", Brand: "Adidas", Image: "https://placehold.co/400x400/1a1a1a/ffffff?text=350+Zebra", RetailPrice: 220, ResellPrice: 320},
		{ID: 11, Name: "Travis Scott x Air Jordan 1 Low", Brand: "Nike", Image: "https://placehold.co/400x400/4a3728/ffffff?text=TS+AJ1", RetailPrice: 150, ResellPrice: 1450},
		{ID: 12, Name: "Nike Vomero 5 Silver Grey", Brand: "Nike", Image: "https://placehold.co/400x400/808080/fff?text=Vomero+5", RetailPrice: 160, ResellPrice: 220},
		{ID: 13, Name: "Converse Chuck 70 High", Brand: "Converse", Image: "https://placehold.co/400x400/2c2c2c/ffffff?text=Chuck+70", RetailPrice: 75, ResellPrice: 85},
		{ID: 14, Name: "Salomon XT-6 Black", Brand: "Salomon", Image: "https://placehold.co/400x400/1a1a1a/ffffff?text=XT-6", RetailPrice: 180, ResellPrice: 210},
		{ID: 15, Name: "Asics Gel-Lyte III", Brand: "Asics", Image: "https://placehold.co/400x400/2d2d2d/ffffff?text=Gel-Lyte", RetailPrice: 130, ResellPrice: 115},
		{ID: 16, Name: "Air Jordan 3 Retro White Cement", Brand: "Nike", Image: "https://placehold.co/400x400/fff8e7/333?text=AJ3", RetailPrice: 210, ResellPrice: 280},
		{ID: 17, Name: "New Balance 2002R Protection Pack", Brand: "New Balance", Image: "https://placehold.co/400x400/4a4a4a/fff?text=2002R", RetailPrice: 150, ResellPrice: 260},
		{ID: 18, Name: "Nike Dunk Low Kentucky", Brand: "Nike", Image: "https://placehold.co/400x400/00471c/fff?text=Dunk+KY", RetailPrice: 100, ResellPrice: 135},
		{ID: 19, Name: "Adidas Gazelle Indoor", Brand: "Adidas", Image: "https://placehold.co/400x400/8b0000/fff?text=Gazelle", RetailPrice: 100, ResellPrice: 110},
		{ID: 20, Name: "Balenciaga Triple S White", Brand: "Balenciaga", Image: "https://placehold.co/400x400/f5f5f5/333?text=Triple+S", RetailPrice: 850, ResellPrice: 920},
		{ID: 21, Name: "Nike Tech Fleece Joggers Grey", Brand: "Nike", Image: "https://placehold.co/400x400/5a5a5a/fff?text=Tech+Fleece", RetailPrice: 100, ResellPrice: 95},
		{ID: 22, Name: "Fear of God Essentials Hoodie Cream", Brand: "Fear of God", Image: "https://placehold.co/400x400/f5e6d3/333?text=FOG+Hoodie", RetailPrice: 110, ResellPrice: 185},
		{ID: 23, Name: "Stussy 8 Ball Fleece Tee", Brand: "Stussy", Image: "https://placehold.co/400x400/1a1a1a/fff?text=8+Ball", RetailPrice: 68, ResellPrice: 120},
		{ID: 24, Name: "Supreme Box Logo Hoodie Grey", Brand: "Supreme", Image: "https://placehold.co/400x400/4a4a4a/fff?text=Supreme", RetailPrice: 168, ResellPrice: 450},
		{ID: 25, Name: "Nike Sportswear Hoodie Black", Brand: "Nike", Image: "https://placehold.co/400x400/111/fff?text=Nike+Hoodie", RetailPrice: 75, ResellPrice: 70},
		{ID: 26, Name: "Stussy Basic Tee White", Brand: "Stussy", Image: "https://placehold.co/400x400/ffffff/333?text=Stussy+Tee", RetailPrice: 45, ResellPrice: 65},
		{ID: 27, Name: "Carhartt WIP Chase Jacket", Brand: "Carhartt WIP", Image: "https://placehold.co/400x400/3d2914/fff?text=Chase", RetailPrice: 180, ResellPrice: 165},
		{ID: 28, Name: "Palace Tri-Ferg Hoodie", Brand: "Palace", Image: "https://placehold.co/400x400/000/fff?text=Palace", RetailPrice: 148, ResellPrice: 220},
		{ID: 29, Name: "Kith Box Logo Hoodie", Brand: "Kith", Image: "https://placehold.co/400x400/2d2d2d/fff?text=Kith", RetailPrice: 165, ResellPrice: 240},
		{ID: 30, Name: "Off-White Arrow Tee", Brand: "Off-White", Image: "https://placehold.co/400x400/fff/000?text=OW+Arrow", RetailPrice: 195, ResellPrice: 280},
		{ID: 31, Name: "Zara Wide Leg Jeans", Brand: "Zara", Image: "https://placehold.co/400x400/2c1810/fff?text=Zara+Jeans", RetailPrice: 49, ResellPrice: 35},
		{ID: 32, Name: "The North Face Nuptse Jacket Black", Brand: "The North Face", Image: "https://placehold.co/400x400/1a1a1a/fff?text=Nuptse", RetailPrice: 270, ResellPrice: 310},
		{ID: 33, Name: "Carhartt WIP Active Pants", Brand: "Carhartt WIP", Image: "https://placehold.co/400x400/3d3d1a/fff?text=WIP+Pants", RetailPrice: 95, ResellPrice: 85},
		{ID: 34, Name: "Zara Oversized Blazer", Brand: "Zara", Image: "https://placehold.co/400x400/2c2c2c/fff?text=Zara+Blazer", RetailPrice: 89, ResellPrice: 55},
		{ID: 35, Name: "The North Face Denali Fleece", Brand: "The North Face", Image: "https://placehold.co/400x400/0066cc/fff?text=Denali", RetailPrice: 169, ResellPrice: 145},
		{ID: 36, Name: "Zara Wool Blend Coat", Brand: "Zara", Image: "https://placehold.co/400x400/4a4a4a/fff?text=Zara+Coat", RetailPrice: 129, ResellPrice: 75},
		{ID: 37, Name: "Uniqlo Ultra Light Down Jacket", Brand: "Uniqlo", Image: "https://placehold.co/400x400/8b0000/fff?text=Ultra+Light", RetailPrice: 69, ResellPrice: 50},
		{ID: 38, Name: "Levi's 501 Original Jeans", Brand: "Levi's", Image: "https://placehold.co/400x400/1e3a5f/fff?text=501", RetailPrice: 98, ResellPrice: 70},
		{ID: 39, Name: "H&M Trench Coat", Brand: "H&M", Image: "https://placehold.co/400x400/4a4a4a/fff?text=H%26M+Trench", RetailPrice: 79, ResellPrice: 45},
		{ID: 40, Name: "Zara Ankle Boots Leather", Brand: "Zara", Image: "https://placehold.co/400x400/3d2914/fff?text=Zara+Boots", RetailPrice: 79, ResellPrice: 50},
		{ID: 41, Name: "Air Jordan 1 High UNC", Brand: "Nike", Image: "https://placehold.co/400x400/1e3a5f/fff?text=AJ1+UNC", RetailPrice: 180, ResellPrice: 290},
		{ID: 42, Name: "Nike Blazer Mid 77", Brand: "Nike", Image: "https://placehold.co/400x400/fff5e6/333?text=Blazer+77", RetailPrice: 100, ResellPrice: 105},
		{ID: 43, Name: "Bape Sta Low White", Brand: "Bape", Image: "https://placehold.co/400x400/fff/333?text=Bape+Sta", RetailPrice: 180, ResellPrice: 250},
		{ID: 44, Name: "Comme des Garçons Play Heart Tee", Brand: "Comme des Garçons", Image: "https://placehold.co/400x400/fff/000?text=CDG+Play", RetailPrice: 125, ResellPrice: 165},
		{ID: 45, Name: "Zara Tailored Trousers", Brand: "Zara", Image: "https://placehold.co/400x400/2d2d2d/fff?text=Zara+Trousers", RetailPrice: 59, ResellPrice: 38},
	}
}
