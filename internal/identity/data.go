package identity

// defaultDomain is used for generated emails when none is given.
const defaultDomain = "zsignup.test"

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Daniel", "Nancy", "Matthew", "Emily",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Taylor", "Moore",
	"Jackson", "Martin", "Lee", "Thompson", "White", "Harris", "Clark", "Lewis",
}

var cities = []string{
	"Portland", "Austin", "Denver", "Boston", "Seattle", "Nashville",
	"Phoenix", "Raleigh", "Columbus", "Omaha", "Tucson", "Richmond",
}

var streetNames = []string{
	"Main", "Oak", "Maple", "Cedar", "Elm", "Pine", "Walnut", "Lake",
	"Hill", "Park", "River", "Spring", "Church", "Meadow", "Sunset", "Willow",
}

var streetSuffixes = []string{
	"St", "Ave", "Blvd", "Dr", "Ln", "Ct", "Pl", "Way", "Rd",
}
