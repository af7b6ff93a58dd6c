package catalog

// seedMenu - стартовое меню, которым backend заполняет пустое хранилище.
var seedMenu = []seedRow{
	// SNACKS
	{name: "Frikandel", category: "SNACKS", price: "2.25"},
	{name: "Frikandel Speciaal", category: "SNACKS", price: "2.75"},
	{name: "Kroket", category: "SNACKS", price: "2.50"},
	{name: "Rundvlees Kroket", category: "SNACKS", price: "3.30"},
	{name: "Goulash Kroket", category: "SNACKS", price: "3.65"},
	{name: "Berehap", category: "SNACKS", price: "3.50"},
	{name: "Bitterballen (6)", category: "SNACKS", price: "3.95"},
	{name: "Bamischijf", category: "SNACKS", price: "2.60"},
	{name: "Nasischijf", category: "SNACKS", price: "2.60"},
	{name: "Boerenbrok", category: "SNACKS", price: "2.75"},
	{name: "Pikanto", category: "SNACKS", price: "2.95"},
	{name: "Braadworst", category: "SNACKS", price: "3.60"},
	{name: "Gehaktbal", category: "SNACKS", price: "5.25"},
	{name: "Loempia", category: "SNACKS", price: "4.50"},
	{name: "Shoarmarol", category: "SNACKS", price: "3.75"},

	// PATAT
	{name: "Patat", category: "PATAT", price: "2.60"},
	{name: "Grote Patat", category: "PATAT", price: "3.35"},
	{name: "Raspatat", category: "PATAT", price: "2.60"},
	{name: "Grote Raspatat", category: "PATAT", price: "3.35"},
	{name: "Verse Friet met Schil", category: "PATAT", price: "3.00"},

	// PATAT SPECIALS
	{name: "Waterfiets", category: "PATAT SPECIALS", price: "8.00"},
	{name: "Catamaran", category: "PATAT SPECIALS", price: "8.50"},
	{name: "Patat Bali", category: "PATAT SPECIALS", price: "7.75"},
	{name: "Patat Pulled Pork", category: "PATAT SPECIALS", price: "10.00"},
	{name: "Kapsalon", category: "PATAT SPECIALS", price: "11.00"},
	{name: "Kipsalon", category: "PATAT SPECIALS", price: "11.00"},

	// BURGERS
	{name: "Elite Burger", category: "BURGERS", price: "6.00"},
	{name: "Elite Burger Speciaal", category: "BURGERS", price: "6.50"},
	{name: "Rex Burger", category: "BURGERS", price: "7.00"},
	{name: "Macho Burger", category: "BURGERS", price: "8.75"},
	{name: "Speciaal Burger", category: "BURGERS", price: "6.75"},
	{name: "Fish Burger", category: "BURGERS", price: "7.50"},
	{name: "Kibbeling Burger", category: "BURGERS", price: "8.00"},
	{name: "Chickenburger", category: "BURGERS", price: "7.00"},
	{name: "Vegan Burger", category: "BURGERS", price: "7.00"},
	{name: "Runder Burger", category: "BURGERS", price: "12.50"},

	// VIS SNACKS
	{name: "Kleine Kibbeling + Saus", category: "VIS SNACKS", price: "6.50"},
	{name: "Middel Kibbeling + Saus", category: "VIS SNACKS", price: "8.50"},
	{name: "Grote Kibbeling + Saus", category: "VIS SNACKS", price: "10.50"},
	{name: "Lekkerbek", category: "VIS SNACKS", price: "6.00"},
	{name: "Lekkerbek + Saus", category: "VIS SNACKS", price: "6.85"},
	{name: "Mosselen + Saus", category: "VIS SNACKS", price: "6.75"},
	{name: "Visfriet + Saus", category: "VIS SNACKS", price: "5.50"},
	{name: "Vismix + 2 Sauzen", category: "VIS SNACKS", price: "9.50"},
	{name: "Torpedo Garnalen (5) + Chilisaus", category: "VIS SNACKS", price: "7.00"},

	// KIP SNACKS
	{name: "Frikandel XXL", category: "KIP SNACKS", price: "3.85"},
	{name: "Frikandel XXL Speciaal", category: "KIP SNACKS", price: "4.85"},
	{name: "Kipnuggets (6)", category: "KIP SNACKS", price: "3.25"},
	{name: "Kipcorn", category: "KIP SNACKS", price: "2.85"},
	{name: "Chickenstrips (5)", category: "KIP SNACKS", price: "6.25"},

	// VEGA/VEGAN SNACKS
	{name: "Groentekroket", category: "VEGA/VEGAN SNACKS", price: "2.25"},
	{name: "Vega Frikandel", category: "VEGA/VEGAN SNACKS", price: "2.25"},
	{name: "Kaassouffle", category: "VEGA/VEGAN SNACKS", price: "2.25"},
	{name: "Vega Kroket", category: "VEGA/VEGAN SNACKS", price: "2.50"},

	// HUISGEMAAKTE SNACKS
	{name: "Eierbal", category: "HUISGEMAAKTE SNACKS", price: "3.15"},
	{name: "Varkenshaas Sate", category: "HUISGEMAAKTE SNACKS", price: "7.50"},
	{name: "Shoarma + Pita + Knoflooksaus", category: "HUISGEMAAKTE SNACKS", price: "7.50"},

	// STOKBROOD
	{name: "Stokbrood Gezond", category: "STOKBROOD", price: "7.25"},
	{name: "Stokbrood Gerookte Zalm", category: "STOKBROOD", price: "9.25"},
	{name: "Stokbrood Gerookte Zalmsnippers", category: "STOKBROOD", price: "8.25"},
	{name: "Stokbrood Tonijnsalade", category: "STOKBROOD", price: "8.00"},
	{name: "Stokbrood Krokante Kip", category: "STOKBROOD", price: "7.25"},
	{name: "Stokbrood Surinaamse Kip", category: "STOKBROOD", price: "9.50"},
	{name: "Stokbrood Pulled Pork", category: "STOKBROOD", price: "9.50"},
	{name: "Stokbrood Warme Beenham", category: "STOKBROOD", price: "8.25"},
	{name: "Stokbrood Carpaccio", category: "STOKBROOD", price: "12.50"},

	// LUNCH
	{name: "2 Kroketten met Brood", category: "LUNCH", price: "10.50"},
	{name: "Uitsmijter Ham & Kaas", category: "LUNCH", price: "9.50"},
	{name: "Bol de Luxe", category: "LUNCH", price: "9.75"},

	// VOORGERECHT
	{name: "Vissoep", category: "VOORGERECHT", price: "6.50"},
	{name: "Tomatensoep", category: "VOORGERECHT", price: "6.50"},
	{name: "Gebakken Gamba's", category: "VOORGERECHT", price: "8.50"},
	{name: "Nacho's", category: "VOORGERECHT", price: "8.50"},
	{name: "Carpaccio", category: "VOORGERECHT", price: "12.50"},

	// VIS PLATE
	{name: "Vis Plate Kibbeling", category: "VIS PLATE", price: "15.50"},
	{name: "Vis Plate Lekkerbek", category: "VIS PLATE", price: "15.50"},
	{name: "Vis Plate Vismix", category: "VIS PLATE", price: "17.50"},
	{name: "Vis Maaltijdsalade Zalm", category: "VIS PLATE", price: "15.50"},

	// VLEES PLATE
	{name: "Vlees Plate Rex Schnitzel", category: "VLEES PLATE", price: "16.50"},
	{name: "Vlees Plate Varkenshaas Sate", category: "VLEES PLATE", price: "16.50"},
	{name: "Vlees Plate Runderburger", category: "VLEES PLATE", price: "18.50"},

	// VEGETARISCH PLATE
	{name: "Vega Plate Vega Sate", category: "VEGETARISCH PLATE", price: "17.50"},

	// DESSERTS
	{name: "Vanille IJs", category: "DESSERTS", price: "5.25"},
	{name: "Vanille IJs + Fruit", category: "DESSERTS", price: "7.25"},
	{name: "Wentelteefje", category: "DESSERTS", price: "8.25"},
	{name: "Kinder IJsje", category: "DESSERTS", price: "4.50"},
	{name: "Schatkist", category: "DESSERTS", price: "3.50"},

	// KOFFIE NA
	{name: "Irish Coffee", category: "KOFFIE NA", price: "7.00"},
	{name: "Groninger Koffie", category: "KOFFIE NA", price: "7.00"},

	// KIDS BOX
	{name: "Kidsbox", category: "KIDS BOX", price: "7.25"},

	// EXTRA
	{name: "Rauwkost", category: "EXTRA", price: "3.25"},
	{name: "Huzarensalade", category: "EXTRA", price: "3.75"},
	{name: "Appelmoes", category: "EXTRA", price: "0.90"},

	// SAUS
	{name: "Frietsaus (Normaal)", category: "SAUS", price: "0.50"},
	{name: "Brander Mayo (Normaal)", category: "SAUS", price: "0.75"},
	{name: "Curry/Ketchup (Normaal)", category: "SAUS", price: "0.70"},
	{name: "Mosterd (Normaal)", category: "SAUS", price: "0.40"},
	{name: "Joppie/Jamballa (Normaal)", category: "SAUS", price: "0.75"},
	{name: "Sate-/Oorlogsaus (Normaal)", category: "SAUS", price: "0.75"},
	{name: "Speciaalsaus (Normaal)", category: "SAUS", price: "0.75"},
	{name: "Knoflooksaus (Normaal)", category: "SAUS", price: "0.75"},
	{name: "Remoulade-/Ravigotte (Normaal)", category: "SAUS", price: "0.85"},
	{name: "Frietsaus (Bakje)", category: "SAUS", price: "1.00"},
	{name: "Brander Mayo (Bakje)", category: "SAUS", price: "1.50"},
	{name: "Curry/Ketchup (Bakje)", category: "SAUS", price: "1.40"},
	{name: "Mosterd (Bakje)", category: "SAUS", price: "0.80"},
	{name: "Joppie/Jamballa (Bakje)", category: "SAUS", price: "1.50"},
	{name: "Sate-/Oorlogsaus (Bakje)", category: "SAUS", price: "1.50"},
	{name: "Speciaalsaus (Bakje)", category: "SAUS", price: "1.50"},
	{name: "Knoflooksaus (Bakje)", category: "SAUS", price: "1.50"},
	{name: "Remoulade-/Ravigotte (Bakje)", category: "SAUS", price: "1.50"},
	{name: "Frietsaus (Bij groot)", category: "SAUS", price: "0.75"},
	{name: "Brander Mayo (Bij groot)", category: "SAUS", price: "1.00"},
	{name: "Curry/Ketchup (Bij groot)", category: "SAUS", price: "1.00"},
	{name: "Mosterd (Bij groot)", category: "SAUS", price: "0.60"},
	{name: "Joppie/Jamballa (Bij groot)", category: "SAUS", price: "1.00"},
	{name: "Sate-/Oorlogsaus (Bij groot)", category: "SAUS", price: "1.00"},
	{name: "Speciaalsaus (Bij groot)", category: "SAUS", price: "1.00"},
	{name: "Knoflooksaus (Bij groot)", category: "SAUS", price: "1.00"},
	{name: "Remoulade-/Ravigotte (Bij groot)", category: "SAUS", price: "1.10"},

	// DRANKEN
	{name: "Monster Energy", category: "DRANKEN", price: "3.50"},
	{name: "Monster Ultra White", category: "DRANKEN", price: "3.50"},
	{name: "Monster Loco Mango", category: "DRANKEN", price: "3.50"},
	{name: "Monster Energy Ultra Strawberry Dreams", category: "DRANKEN", price: "3.50"},
}
