package textnorm

// corrections maps lowercase misspellings and chat shorthand to their
// canonical form. No value may itself be a key, which keeps Normalize
// idempotent.
var corrections = map[string]string{
	// cities
	"delhii":    "delhi",
	"mumbaii":   "mumbai",
	"bangalor":  "bangalore",
	"bangaluru": "bangalore",
	"bengaluru": "bangalore",
	"chenai":    "chennai",
	"chennayi":  "chennai",
	"kolkatta":  "kolkata",
	"hydrabad":  "hyderabad",
	"hyderabd":  "hyderabad",
	"dilli":     "delhi",
	"bombay":    "mumbai",
	"calcutta":  "kolkata",
	"madras":    "chennai",
	"allahabad": "prayagraj",
	"gurgaon":   "gurugram",
	"mysore":    "mysuru",

	// food and sights
	"resturant":     "restaurant",
	"resturants":    "restaurants",
	"restraunt":     "restaurant",
	"restaraunt":    "restaurant",
	"cusine":        "cuisine",
	"cusines":       "cuisines",
	"reccomend":     "recommend",
	"recomend":      "recommend",
	"recomendation": "recommendation",
	"delicous":      "delicious",
	"delishious":    "delicious",
	"templs":        "temples",
	"tempels":       "temples",
	"tempal":        "temple",
	"musium":        "museum",
	"musiums":       "museums",
	"palce":         "place",
	"palces":        "places",
	"plce":          "place",
	"intresting":    "interesting",
	"beatiful":      "beautiful",
	"beutiful":      "beautiful",
	"famouse":       "famous",
	"moument":       "monument",

	// getting around and staying
	"trasportation": "transportation",
	"transporation": "transportation",
	"publc":         "public",
	"busses":        "buses",
	"buss":          "bus",
	"travell":       "travel",
	"travelling":    "traveling",
	"accomodation":  "accommodation",
	"acommodation":  "accommodation",
	"hotell":        "hotel",
	"hotells":       "hotels",
	"budjet":        "budget",
	"budgit":        "budget",

	// events, shopping, parks
	"enterainment": "entertainment",
	"entertaiment": "entertainment",
	"festivall":    "festival",
	"festivel":     "festival",
	"concrt":       "concert",
	"celebraton":   "celebration",
	"shoppping":    "shopping",
	"shoping":      "shopping",
	"markts":       "markets",
	"markt":        "market",
	"malll":        "mall",
	"storr":        "store",
	"recriation":   "recreation",
	"recreaton":    "recreation",
	"gardn":        "garden",
	"gardns":       "gardens",
	"parkk":        "park",

	// utilities
	"wether":    "weather",
	"wheather":  "weather",
	"currancy":  "currency",
	"currencey": "currency",
	"translat":  "translate",
	"translte":  "translate",

	// shorthand
	"plz":  "please",
	"pls":  "please",
	"thx":  "thanks",
	"thnx": "thanks",
	"abt":  "about",
}

// cityAliases maps every recognised spelling of a city, including
// multi-word names, to its canonical name.
var cityAliases = map[string]string{
	"delhi":            "delhi",
	"new delhi":        "delhi",
	"dilli":            "delhi",
	"mumbai":           "mumbai",
	"bombay":           "mumbai",
	"kolkata":          "kolkata",
	"calcutta":         "kolkata",
	"chennai":          "chennai",
	"madras":           "chennai",
	"bangalore":        "bangalore",
	"bengaluru":        "bangalore",
	"bangaluru":        "bangalore",
	"hyderabad":        "hyderabad",
	"pune":             "pune",
	"ahmedabad":        "ahmedabad",
	"surat":            "surat",
	"jaipur":           "jaipur",
	"lucknow":          "lucknow",
	"kanpur":           "kanpur",
	"nagpur":           "nagpur",
	"indore":           "indore",
	"thane":            "thane",
	"bhopal":           "bhopal",
	"visakhapatnam":    "visakhapatnam",
	"pimpri":           "pimpri chinchwad",
	"pimpri chinchwad": "pimpri chinchwad",
	"patna":            "patna",
	"vadodara":         "vadodara",
	"ghaziabad":        "ghaziabad",
	"ludhiana":         "ludhiana",
	"agra":             "agra",
	"nashik":           "nashik",
	"faridabad":        "faridabad",
	"meerut":           "meerut",
	"rajkot":           "rajkot",
	"kalyan":           "kalyan dombivli",
	"kalyan dombivli":  "kalyan dombivli",
	"vasai":            "vasai virar",
	"vasai virar":      "vasai virar",
	"varanasi":         "varanasi",
	"srinagar":         "srinagar",
	"dhanbad":          "dhanbad",
	"jodhpur":          "jodhpur",
	"amritsar":         "amritsar",
	"raipur":           "raipur",
	"allahabad":        "prayagraj",
	"prayagraj":        "prayagraj",
	"coimbatore":       "coimbatore",
	"jabalpur":         "jabalpur",
	"gwalior":          "gwalior",
	"vijayawada":       "vijayawada",
	"madurai":          "madurai",
	"gurgaon":          "gurugram",
	"gurugram":         "gurugram",
	"mysore":           "mysuru",
	"mysuru":           "mysuru",
}
