package category

var catalog = [count]Category{
	Historical: {
		ID:          Historical,
		Slug:        "historical",
		Name:        "Historical Places",
		Icon:        "🏛️",
		Description: "Discover ancient monuments, heritage sites, museums, and historical stories of your city.",
		Scope:       "🏛️ I'm here to help you explore historical places, monuments, heritage sites, and cultural stories. Please ask about historical attractions, ancient sites, museums, or cultural heritage!",
		Examples:    []string{"ancient temples", "historical monuments", "heritage sites", "museums"},
		Samples:     []string{"Best historical places in Delhi", "Ancient temples near me", "Museums to visit"},
		Validation: []string{
			"history", "ancient", "heritage", "monument", "temple", "fort", "museum",
			"archaeological", "culture", "historical",
		},
		Intent: []string{
			"history", "historical", "ancient", "heritage", "monument", "temple",
			"fort", "palace", "museum", "archaeological", "culture", "traditional",
			"old", "historic", "legacy", "past", "civilization", "dynasty",
		},
		prompt: promptSpec{
			role:  "an expert historian and cultural guide",
			local: true,
			task:  "Provide detailed, accurate information about historical places, monuments, heritage sites, museums, and cultural significance.",
			points: []string{
				"Specific historical places/sites relevant to the query",
				"Historical significance and interesting facts",
				"Visiting information (timings, entry fees if known)",
				"Cultural context and stories",
				"Nearby attractions",
			},
			closing: "Keep responses informative yet engaging. Include practical visiting tips where possible. If the user asks about a specific city, focus on that city's historical attractions.",
		},
	},
	Tourist: {
		ID:          Tourist,
		Slug:        "tourist",
		Name:        "Tourist Attractions",
		Icon:        "🎯",
		Description: "Find the best tourist spots, landmarks, viewpoints, and must-visit places.",
		Scope:       "🎯 I'm your tourist guide! Ask me about popular attractions, landmarks, viewpoints, photo spots, and must-visit places in your city!",
		Examples:    []string{"famous landmarks", "tourist spots", "sightseeing places", "viewpoints"},
		Samples:     []string{"Top tourist attractions in Jaipur", "Famous landmarks to visit", "Best sightseeing spots for photos"},
		Validation: []string{
			"tourist", "attraction", "landmark", "visit", "sightseeing", "viewpoint",
			"photo", "popular", "famous",
		},
		Intent: []string{
			"tourist", "attraction", "landmark", "visit", "sightseeing", "viewpoint",
			"photo", "popular", "famous", "must see", "bucket list", "iconic",
			"travel", "tour", "explore", "destination", "spot",
		},
		prompt: promptSpec{
			role:  "a professional tourist guide and travel expert",
			local: true,
			task:  "Recommend the best tourist attractions, landmarks, viewpoints, and must-visit places.",
			points: []string{
				"Top tourist attractions matching the query",
				"Brief descriptions of what makes each place special",
				"Best times to visit",
				"Photography spots and tips",
				"Nearby attractions to combine in a trip",
				"Practical information (how to reach, approximate costs)",
			},
			closing: "Focus on creating an exciting travel experience. Be enthusiastic but accurate.",
		},
	},
	Food: {
		ID:          Food,
		Slug:        "food",
		Name:        "Food & Dining",
		Icon:        "🍽️",
		Description: "Explore local cuisine, restaurants, street food, and culinary experiences.",
		Scope:       "🍽️ I'm your food guide! Ask me about local cuisine, restaurants, street food, dining experiences, or food markets!",
		Examples:    []string{"restaurants", "local cuisine", "street food", "dining options"},
		Samples:     []string{"Best restaurants in Mumbai", "Famous street food to try", "Cafes for breakfast"},
		Validation: []string{
			"food", "restaurant", "cuisine", "eat", "dining", "street food",
			"local food", "dish", "meal", "cafe",
		},
		Intent: []string{
			"food", "restaurant", "cuisine", "eat", "dining", "street food",
			"local food", "dish", "meal", "cafe", "snack", "breakfast", "lunch",
			"dinner", "tasty", "delicious", "flavor", "spicy", "sweet",
		},
		prompt: promptSpec{
			role:  "a food expert and culinary guide",
			local: true,
			task:  "Recommend local cuisine, restaurants, street food spots, and unique dining experiences.",
			points: []string{
				"Specific food recommendations or restaurants",
				"Local specialties and must-try dishes",
				"Price ranges (budget-friendly to premium)",
				"Best areas/markets for food exploration",
				"Cultural significance of local dishes",
				"Dietary options (vegetarian, vegan, etc.) where relevant",
			},
			closing: "Make the food sound delicious and provide practical dining tips!",
		},
	},
	Transport: {
		ID:          Transport,
		Slug:        "transport",
		Name:        "Transportation",
		Icon:        "🚌",
		Description: "Get information about public transport, routes, schedules, and getting around.",
		Scope:       "🚌 I'm your transportation guide! Ask me about buses, metro, taxis, routes, schedules, or how to get around the city!",
		Examples:    []string{"bus routes", "metro schedules", "taxi services", "public transport"},
		Samples:     []string{"Metro routes in Bangalore", "How to commute from the airport", "Bus schedule to the old city"},
		Validation: []string{
			"transport", "bus", "metro", "taxi", "route", "travel", "commute",
			"public transport", "schedule",
		},
		Intent: []string{
			"transport", "bus", "metro", "taxi", "route", "travel", "commute",
			"public transport", "schedule", "train", "auto", "rickshaw",
			"uber", "ola", "cab", "railway", "station",
		},
		prompt: promptSpec{
			role:  "a transportation expert and local commute guide",
			local: true,
			task:  "Provide comprehensive transportation information and travel guidance.",
			points: []string{
				"Best transportation options for the query",
				"Public transport routes and schedules (if known)",
				"Approximate costs and travel times",
				"Tips for using local transport",
				"Alternative transportation methods",
				"Safety and convenience tips",
			},
			closing: "Focus on practical, actionable transportation advice.",
		},
	},
	Hotels: {
		ID:          Hotels,
		Slug:        "hotels",
		Name:        "Accommodation",
		Icon:        "🏨",
		Description: "Find hotels, guesthouses, and places to stay that suit your budget.",
		Scope:       "🏨 I'm your accommodation expert! Ask me about hotels, guesthouses, hostels, budget stays, or luxury accommodations!",
		Examples:    []string{"hotels", "guesthouses", "places to stay", "accommodation"},
		Samples:     []string{"Budget hotels in Goa", "Hostels near the railway station", "Where to stay for a weekend"},
		Validation: []string{
			"hotel", "accommodation", "stay", "room", "booking", "guesthouse",
			"hostel", "lodge",
		},
		Intent: []string{
			"hotel", "accommodation", "stay", "room", "booking", "guesthouse",
			"hostel", "lodge", "resort", "budget stay", "luxury", "cheap",
			"expensive", "night", "check in", "check out",
		},
		prompt: promptSpec{
			role:  "an accommodation specialist and hospitality expert",
			local: true,
			task:  "Recommend hotels, guesthouses, hostels, and places to stay.",
			points: []string{
				"Accommodation options matching the budget/preferences",
				"Different price categories (budget, mid-range, luxury)",
				"Key amenities and features",
				"Best areas to stay for different purposes",
				"Booking tips and best times for deals",
				"Nearby attractions from recommended stays",
			},
			closing: "Help travelers find the perfect place to stay within their budget.",
		},
	},
	Events: {
		ID:          Events,
		Slug:        "events",
		Name:        "Events & Entertainment",
		Icon:        "🎪",
		Description: "Discover current events, festivals, shows, and entertainment options.",
		Scope:       "🎪 I'm your entertainment guide! Ask me about current events, festivals, concerts, shows, nightlife, or cultural performances!",
		Examples:    []string{"festivals", "concerts", "shows", "nightlife"},
		Samples:     []string{"Festivals happening this month", "Live music and concerts this weekend", "Nightlife in Pune"},
		Validation: []string{
			"event", "festival", "concert", "show", "entertainment", "nightlife",
			"performance", "celebration",
		},
		Intent: []string{
			"event", "festival", "concert", "show", "entertainment", "nightlife",
			"performance", "celebration", "party", "club", "bar", "music",
			"dance", "theater", "cinema", "movie",
		},
		prompt: promptSpec{
			role:  "an entertainment and events expert",
			local: true,
			task:  "Provide information about events, festivals, shows, and entertainment options.",
			points: []string{
				"Current/upcoming events and entertainment options",
				"Regular festivals and seasonal celebrations",
				"Popular entertainment venues and nightlife spots",
				"Cultural performances and shows",
				"Ticket information and booking tips where relevant",
				"Age-appropriate recommendations",
			},
			closing: "Keep users informed about the vibrant cultural scene!",
		},
	},
	Shopping: {
		ID:          Shopping,
		Slug:        "shopping",
		Name:        "Shopping",
		Icon:        "🛍️",
		Description: "Find the best shopping areas, markets, malls, and specialty stores.",
		Scope:       "🛍️ I'm your shopping guide! Ask me about markets, malls, specialty stores, local crafts, or the best places to shop!",
		Examples:    []string{"markets", "malls", "shopping areas", "stores"},
		Samples:     []string{"Best markets for handicrafts", "Shopping malls in Hyderabad", "Where to buy souvenirs"},
		Validation: []string{
			"shopping", "market", "mall", "store", "buy", "shop", "souvenir", "craft",
		},
		Intent: []string{
			"shopping", "market", "mall", "store", "buy", "shop", "souvenir",
			"craft", "clothes", "jewelry", "electronics", "books",
			"handicraft", "local products", "brands",
		},
		prompt: promptSpec{
			role:  "a shopping expert and local market guide",
			local: true,
			task:  "Recommend the best shopping experiences, markets, malls, and specialty stores.",
			points: []string{
				"Best shopping areas and markets for the query",
				"Local specialties and what to buy",
				"Price ranges and bargaining tips",
				"Mall vs local market recommendations",
				"Unique shopping experiences",
				"Best times to visit markets",
			},
			closing: "Help shoppers discover amazing local finds and good deals!",
		},
	},
	Parks: {
		ID:          Parks,
		Slug:        "parks",
		Name:        "Parks & Recreation",
		Icon:        "🌳",
		Description: "Explore parks, gardens, outdoor activities, and recreational facilities.",
		Scope:       "🌳 I'm your recreation guide! Ask me about parks, gardens, outdoor activities, sports facilities, or nature spots!",
		Examples:    []string{"parks", "gardens", "outdoor activities", "recreation"},
		Samples:     []string{"Parks for a morning jog", "Botanical gardens in Chennai", "Outdoor activities for kids"},
		Validation: []string{
			"park", "garden", "outdoor", "nature", "recreation", "sports",
			"exercise", "green space",
		},
		Intent: []string{
			"park", "garden", "outdoor", "nature", "recreation", "sports",
			"exercise", "green space", "jogging", "walking", "cycling",
			"playground", "zoo", "lake", "river",
		},
		prompt: promptSpec{
			role:  "a recreation and outdoor activity expert",
			local: true,
			task:  "Recommend parks, gardens, outdoor activities, and recreational facilities.",
			points: []string{
				"Best parks and green spaces for the query",
				"Available activities and facilities",
				"Best times to visit",
				"Entry fees and accessibility information",
				"Nearby recreational options",
				"Family-friendly vs adult-focused recommendations",
			},
			closing: "Promote outdoor activities and healthy recreation!",
		},
	},
	Weather: {
		ID:          Weather,
		Slug:        "weather",
		Name:        "Weather",
		Icon:        "🌤️",
		Description: "Get current conditions, seasonal guidance, and what to wear.",
		Scope:       "🌤️ I'm your weather assistant! Ask me about current conditions, forecasts, seasons, or what to wear in a city!",
		Examples:    []string{"current conditions", "seasonal forecasts", "what to wear", "best time to travel"},
		Samples:     []string{"Weather in Delhi", "Current weather in Mumbai"},
		Utility:     true,
		Validation: []string{
			"weather", "temperature", "forecast", "climate", "rainy", "rainfall",
			"humid", "sunny", "monsoon", "season", "snow",
		},
		Intent: []string{
			"weather", "temperature", "forecast", "climate", "rainy", "rainfall",
			"humid", "sunny", "monsoon", "season", "snow", "umbrella", "storm",
			"degrees", "winter", "summer",
		},
		prompt: promptSpec{
			role:  "a weather information assistant",
			local: true,
			lead:  "Provide general weather information and seasonal guidance for the mentioned location. If no specific city is mentioned, give general Indian climate information. Include:",
			points: []string{
				"Current season characteristics",
				"What to expect weather-wise",
				"Best clothing recommendations",
				"Seasonal travel tips",
			},
			closing: "Note: For real-time weather, recommend checking local weather apps.",
		},
	},
	Currency: {
		ID:          Currency,
		Slug:        "currency",
		Name:        "Currency",
		Icon:        "💱",
		Description: "Convert currencies and learn how to pay like a local.",
		Scope:       "💱 I'm your currency assistant! Ask me to convert amounts, or about exchange tips and payment options!",
		Examples:    []string{"currency conversion", "exchange tips", "where to exchange money", "digital payments"},
		Samples:     []string{"Convert 100 USD to INR", "What is 50 EUR in Indian Rupees?"},
		Utility:     true,
		Validation: []string{
			"currency", "convert", "conversion", "exchange", "rupee", "dollar",
			"euro", "pound", "forex", "money", "cash", "inr", "usd",
		},
		Intent: []string{
			"currency", "convert", "conversion", "exchange", "rupee", "dollar",
			"euro", "pound", "forex", "money", "cash", "inr", "usd",
			"payment", "atm", "card",
		},
		prompt: promptSpec{
			role: "a currency and finance assistant",
			lead: "Help with currency conversion questions. Provide:",
			points: []string{
				"General exchange rate information (note: rates change daily)",
				"Tips for currency exchange",
				"Best places to exchange money",
				"Digital payment options in India",
			},
			closing: "Note: For current exact rates, recommend checking live currency apps.",
		},
	},
	Translate: {
		ID:          Translate,
		Slug:        "translate",
		Name:        "Translation",
		Icon:        "🗣️",
		Description: "Translate words and phrases between languages.",
		Scope:       "🗣️ I'm your language assistant! Ask me to translate a word or phrase, or how to say something in another language!",
		Examples:    []string{"phrase translation", "pronunciation", "local language basics", "cultural context"},
		Samples:     []string{"Translate hello to Hindi", "How do you say thank you in Spanish?"},
		Utility:     true,
		Validation: []string{
			"translate", "translation", "language", "meaning", "say", "pronounce",
			"phrase", "word", "hindi", "tamil", "telugu", "bengali", "marathi",
			"kannada", "malayalam", "gujarati", "punjabi", "spanish", "french", "german",
		},
		Intent: []string{
			"translate", "translation", "language", "meaning", "say", "pronounce",
			"phrase", "word", "hindi", "tamil", "telugu", "bengali", "marathi",
			"kannada", "malayalam", "gujarati", "punjabi", "spanish", "french", "german",
			"speak", "english",
		},
		prompt: promptSpec{
			role: "a language translation assistant",
			lead: "Help with translation between languages, focusing on:",
			points: []string{
				"Accurate translations",
				"Cultural context where relevant",
				"Pronunciation guidance for Indian languages",
				"Alternative ways to express the same meaning",
			},
			closing: "Prioritize Indian regional languages when relevant.",
		},
	},
}
