package offers

const UnknownAirline = "Unknown Airline"

var airlineNames = map[string]string{
	"SU": "Aeroflot", "EK": "Emirates", "TK": "Turkish Airlines", "LH": "Lufthansa",
	"BA": "British Airways", "AF": "Air France", "DL": "Delta Air Lines", "AA": "American Airlines",
	"UA": "United Airlines", "JL": "Japan Airlines", "NH": "All Nippon Airways", "SQ": "Singapore Airlines",
	"CX": "Cathay Pacific", "QF": "Qantas", "LY": "El Al", "AC": "Air Canada",
	"WN": "Southwest Airlines", "AS": "Alaska Airlines", "B6": "JetBlue Airways", "F9": "Frontier Airlines",
	"G4": "Allegiant Air", "HA": "Hawaiian Airlines", "NK": "Spirit Airlines", "VY": "Vueling",
	"IB": "Iberia", "AY": "Finnair", "KL": "KLM Royal Dutch Airlines", "QR": "Qatar Airways",
	"EY": "Etihad Airways", "BR": "EVA Air", "CI": "China Airlines", "CA": "Air China",
	"MU": "China Eastern Airlines", "CZ": "China Southern Airlines", "KE": "Korean Air", "OZ": "Asiana Airlines",
	"TG": "Thai Airways", "AI": "Air India", "ET": "Ethiopian Airlines", "SA": "South African Airlines",
	"MS": "EgyptAir", "SV": "Saudia",
}

// AirlineName resolves an IATA carrier code. Unknown codes fall back to the code itself.
func AirlineName(code string) string {
	if name, ok := airlineNames[code]; ok {
		return name
	}
	if code != "" {
		return code
	}
	return UnknownAirline
}
