package listings

import "github.com/property-assistant/server/internal/agent/model"

// MockProperties is the demo inventory the listing UI ships with.
var MockProperties = []model.Property{
	{
		ID: 1, Title: "Modern Downtown Loft", Price: 450000, Bedrooms: 2, Bathrooms: 2, Sqft: 1200,
		PropertyType: model.Condo, Address: "123 Main St, Austin, TX 78701", City: "Austin", State: "TX", ZipCode: "78701",
		Description: "Beautiful modern loft in the heart of downtown Austin. Features high ceilings, exposed brick, and stunning city views. Walking distance to restaurants, bars, and entertainment.",
		Features:    []string{"Central AC", "Hardwood Floors", "Stainless Steel Appliances", "In-Unit Laundry", "Parking Included", "Pet Friendly"},
		YearBuilt:   2020, HOAFees: 250, Status: "For Sale", DaysOnMarket: 15, ListingDate: "2025-10-20",
		OwnerAccountID: "acct-7731", AgentCommissionPct: 2.5, InternalNotes: "Seller flexible below 430k",
	},
	{
		ID: 2, Title: "Spacious Family Home", Price: 650000, Bedrooms: 4, Bathrooms: 3, Sqft: 2400,
		PropertyType: model.House, Address: "456 Oak Avenue, Austin, TX 78704", City: "Austin", State: "TX", ZipCode: "78704",
		Description: "Perfect family home in desirable South Austin neighborhood. Large backyard, updated kitchen, and close to top-rated schools. Move-in ready!",
		Features:    []string{"Large Backyard", "Updated Kitchen", "Master Suite", "Two-Car Garage", "Sprinkler System", "Energy Efficient"},
		YearBuilt:   2015, Status: "For Sale", DaysOnMarket: 8, ListingDate: "2025-10-28",
		OwnerAccountID: "acct-1204", AgentCommissionPct: 3,
	},
	{
		ID: 3, Title: "Luxury Penthouse Suite", Price: 1200000, Bedrooms: 3, Bathrooms: 3.5, Sqft: 2800,
		PropertyType: model.Condo, Address: "789 Congress Ave, Austin, TX 78701", City: "Austin", State: "TX", ZipCode: "78701",
		Description: "Exclusive penthouse with panoramic city views. Features floor-to-ceiling windows, gourmet kitchen, and private rooftop terrace. Concierge service and valet parking.",
		Features:    []string{"Rooftop Terrace", "Concierge Service", "Valet Parking", "Smart Home System", "Wine Cellar", "Floor-to-Ceiling Windows"},
		YearBuilt:   2022, HOAFees: 800, Status: "For Sale", DaysOnMarket: 30, ListingDate: "2025-10-05",
	},
	{
		ID: 4, Title: "Cozy Starter Home", Price: 325000, Bedrooms: 3, Bathrooms: 2, Sqft: 1400,
		PropertyType: model.House, Address: "321 Elm St, Austin, TX 78745", City: "Austin", State: "TX", ZipCode: "78745",
		Description: "Charming starter home with recent updates. New roof, fresh paint, and updated bathrooms. Great location near public transit and shopping.",
		Features:    []string{"New Roof", "Updated Bathrooms", "Covered Patio", "Fenced Yard", "Near Public Transit", "Storage Shed"},
		YearBuilt:   2005, Status: "For Sale", DaysOnMarket: 5, ListingDate: "2025-10-30",
	},
	{
		ID: 5, Title: "Modern Townhouse", Price: 485000, Bedrooms: 3, Bathrooms: 2.5, Sqft: 1800,
		PropertyType: model.Townhouse, Address: "555 West 6th St, Austin, TX 78703", City: "Austin", State: "TX", ZipCode: "78703",
		Description: "Contemporary townhouse in trendy West Austin. Open floor plan, private courtyard, and rooftop deck. Walking distance to Whole Foods and Zilker Park.",
		Features:    []string{"Rooftop Deck", "Private Courtyard", "Open Floor Plan", "Modern Finishes", "Two-Car Garage", "Walk to Zilker Park"},
		YearBuilt:   2019, HOAFees: 150, Status: "For Sale", DaysOnMarket: 12, ListingDate: "2025-10-23",
	},
	{
		ID: 6, Title: "Executive Estate", Price: 950000, Bedrooms: 5, Bathrooms: 4, Sqft: 4200,
		PropertyType: model.House, Address: "888 Hill Country Dr, Austin, TX 78746", City: "Austin", State: "TX", ZipCode: "78746",
		Description: "Stunning executive home on 1-acre lot with pool and guest house. Gourmet kitchen, wine room, and home theater. Award-winning schools.",
		Features:    []string{"Pool & Spa", "Guest House", "Wine Room", "Home Theater", "Gourmet Kitchen", "3-Car Garage"},
		YearBuilt:   2018, Status: "For Sale", DaysOnMarket: 45, ListingDate: "2025-09-20",
	},
	{
		ID: 7, Title: "Urban Studio Apartment", Price: 225000, Bedrooms: 1, Bathrooms: 1, Sqft: 650,
		PropertyType: model.Apartment, Address: "100 Red River St, Austin, TX 78701", City: "Austin", State: "TX", ZipCode: "78701",
		Description: "Efficient studio in the heart of downtown. Perfect for young professionals. Building amenities include gym, pool, and business center.",
		Features:    []string{"Gym Access", "Pool", "Business Center", "Concierge", "Bike Storage", "Package Room"},
		YearBuilt:   2021, HOAFees: 350, Status: "For Sale", DaysOnMarket: 3, ListingDate: "2025-11-02",
	},
	{
		ID: 8, Title: "Renovated Bungalow", Price: 550000, Bedrooms: 3, Bathrooms: 2, Sqft: 1600,
		PropertyType: model.House, Address: "777 South Lamar Blvd, Austin, TX 78704", City: "Austin", State: "TX", ZipCode: "78704",
		Description: "Beautifully renovated 1920s bungalow with modern amenities. Original hardwoods, updated kitchen, and spa-like bathrooms. Huge trees and mature landscaping.",
		Features:    []string{"Original Hardwoods", "Updated Kitchen", "Spa Bathrooms", "Large Trees", "Front Porch", "Detached Studio"},
		YearBuilt:   1925, Status: "For Sale", DaysOnMarket: 7, ListingDate: "2025-10-29",
	},
	{
		ID: 9, Title: "Lake View Condo", Price: 395000, Bedrooms: 2, Bathrooms: 2, Sqft: 1100,
		PropertyType: model.Condo, Address: "200 Lakeshore Dr, Austin, TX 78703", City: "Austin", State: "TX", ZipCode: "78703",
		Description: "Stunning lake views from every room. Private balcony, community boat dock, and kayak storage. Resort-style amenities.",
		Features:    []string{"Lake Views", "Private Balcony", "Boat Dock", "Kayak Storage", "Resort Pool", "Fitness Center"},
		YearBuilt:   2017, HOAFees: 400, Status: "For Sale", DaysOnMarket: 18, ListingDate: "2025-10-18",
	},
	{
		ID: 10, Title: "New Construction Modern", Price: 725000, Bedrooms: 4, Bathrooms: 3, Sqft: 2600,
		PropertyType: model.House, Address: "999 Mueller Blvd, Austin, TX 78723", City: "Austin", State: "TX", ZipCode: "78723",
		Description: "Brand new construction in Mueller development. Energy-efficient design, smart home technology, and community amenities. Still time to select finishes!",
		Features:    []string{"Smart Home", "Energy Efficient", "Community Pool", "Parks & Trails", "New Appliances", "Builder Warranty"},
		YearBuilt:   2025, HOAFees: 100, Status: "For Sale", DaysOnMarket: 1, ListingDate: "2025-11-04",
	},
	{
		ID: 11, Title: "Hill Country Ranch", Price: 1500000, Bedrooms: 4, Bathrooms: 3, Sqft: 3200,
		PropertyType: model.House, Address: "1234 Ranch Rd, Dripping Springs, TX 78620", City: "Dripping Springs", State: "TX", ZipCode: "78620",
		Description: "Stunning Hill Country ranch on 5 acres. Main house plus guest cottage. Panoramic views, outdoor kitchen, and private well.",
		Features:    []string{"5 Acres", "Guest Cottage", "Outdoor Kitchen", "Private Well", "Hill Country Views", "Barn"},
		YearBuilt:   2012, Status: "For Sale", DaysOnMarket: 60, ListingDate: "2025-09-06",
	},
	{
		ID: 12, Title: "Downtown High-Rise", Price: 675000, Bedrooms: 2, Bathrooms: 2.5, Sqft: 1500,
		PropertyType: model.Condo, Address: "300 Colorado St, Austin, TX 78701", City: "Austin", State: "TX", ZipCode: "78701",
		Description: "Luxury high-rise living at its finest. Floor 28 with incredible views. Building features rooftop pool, gym, and dog park.",
		Features:    []string{"Rooftop Pool", "24/7 Concierge", "Gym", "Dog Park", "City Views", "Valet Parking"},
		YearBuilt:   2020, HOAFees: 600, Status: "For Sale", DaysOnMarket: 22, ListingDate: "2025-10-14",
	},
}
