package fixture

import "slices"

// cities lists the 50 most populous urban areas. It is never mutated.
var cities = [...]string{
	"Tokyo", "Delhi", "Shanghai", "Sao Paulo", "Mexico City",
	"Cairo", "Mumbai", "Beijing", "Dhaka", "Osaka",
	"New York", "Karachi", "Buenos Aires", "Chongqing", "Istanbul",
	"Kolkata", "Manila", "Lagos", "Rio de Janeiro", "Tianjin",
	"Kinshasa", "Guangzhou", "Los Angeles", "Moscow", "Shenzhen",
	"Lahore", "Bangalore", "Paris", "Bogota", "Jakarta",
	"Chennai", "Lima", "Bangkok", "Seoul", "Nagoya",
	"Hyderabad", "London", "Tehran", "Chicago", "Chengdu",
	"Nanjing", "Wuhan", "Ho Chi Minh City", "Luanda", "Ahmedabad",
	"Kuala Lumpur", "Xi'an", "Hong Kong", "Dongguan", "Hangzhou",
}

// CityCount is the number of cities RandomCity draws from.
const CityCount = len(cities)

// Cities returns a copy of the city list in its fixed order.
func Cities() []string {
	return slices.Clone(cities[:])
}

// IsCity reports whether name is one of the fixture cities.
func IsCity(name string) bool {
	return slices.Contains(cities[:], name)
}
