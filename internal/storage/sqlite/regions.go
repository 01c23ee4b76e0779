package sqlite

import (
	"sort"
	"strings"
)

// regionPatterns maps a canonical region label to location LIKE patterns.
// The patterns deliberately overmatch (a soft filter for a dropdown, not a
// geocoder); adding a region only needs a new entry here.
var regionPatterns = map[string][]string{
	"united kingdom": {
		"%united kingdom%", "%, uk%", "%(uk)%", "% uk", "uk", "uk,%", "uk %",
		"%england%", "%scotland%", "%wales%", "%northern ireland%",
		"%london%", "%manchester%", "%birmingham%", "%leeds%", "%glasgow%",
		"%edinburgh%", "%bristol%", "%liverpool%", "%cambridge%", "%oxford%",
	},
	"united states": {
		"%united states%", "%, usa%", "%(usa)%", "% usa", "usa", "usa,%",
		"%, us%", "% us", "us", "%new york%", "%san francisco%", "%los angeles%",
		"%chicago%", "%boston%", "%seattle%", "%austin%", "%denver%", "%atlanta%",
		"%, al", "%, ak", "%, az", "%, ar", "%, ca", "%, co", "%, ct", "%, de",
		"%, fl", "%, ga", "%, hi", "%, id", "%, il", "%, in", "%, ia", "%, ks",
		"%, ky", "%, la", "%, me", "%, md", "%, ma", "%, mi", "%, mn", "%, ms",
		"%, mo", "%, mt", "%, ne", "%, nv", "%, nh", "%, nj", "%, nm", "%, ny",
		"%, nc", "%, nd", "%, oh", "%, ok", "%, or", "%, pa", "%, ri", "%, sc",
		"%, sd", "%, tn", "%, tx", "%, ut", "%, vt", "%, va", "%, wa", "%, wv",
		"%, wi", "%, wy",
	},
	"canada": {
		"%canada%", "%toronto%", "%vancouver%", "%montreal%", "%ottawa%",
		"%calgary%", "%, on%", "%, bc%", "%, qc%", "%, ab%",
	},
	"germany": {
		"%germany%", "%deutschland%", "%berlin%", "%munich%", "%münchen%",
		"%hamburg%", "%frankfurt%", "%cologne%", "%köln%", "%stuttgart%",
	},
	"france": {
		"%france%", "%paris%", "%lyon%", "%marseille%", "%toulouse%", "%bordeaux%",
	},
	"netherlands": {
		"%netherlands%", "%amsterdam%", "%rotterdam%", "%the hague%",
		"%utrecht%", "%eindhoven%", "%holland%",
	},
	"ireland": {
		"%ireland%", "%dublin%", "%cork%", "%galway%",
	},
	"australia": {
		"%australia%", "%sydney%", "%melbourne%", "%brisbane%", "%perth%",
		"%adelaide%", "%canberra%",
	},
	"india": {
		"%india%", "%bangalore%", "%bengaluru%", "%mumbai%", "%delhi%",
		"%hyderabad%", "%chennai%", "%pune%", "%noida%", "%gurgaon%",
	},
	"spain": {
		"%spain%", "%madrid%", "%barcelona%", "%valencia%", "%seville%", "%españa%",
	},
	"italy": {
		"%italy%", "%milan%", "%rome%", "%turin%", "%bologna%", "%italia%",
	},
	"sweden": {
		"%sweden%", "%stockholm%", "%gothenburg%", "%malmö%", "%malmo%",
	},
	"switzerland": {
		"%switzerland%", "%zurich%", "%zürich%", "%geneva%", "%basel%", "%bern%",
	},
	"singapore": {
		"%singapore%",
	},
	"japan": {
		"%japan%", "%tokyo%", "%osaka%", "%kyoto%",
	},
	"brazil": {
		"%brazil%", "%brasil%", "%são paulo%", "%sao paulo%", "%rio de janeiro%",
	},
	"mexico": {
		"%mexico%", "%méxico%", "%mexico city%", "%guadalajara%", "%monterrey%",
	},
	"poland": {
		"%poland%", "%warsaw%", "%krakow%", "%kraków%", "%wroclaw%", "%wrocław%",
		"%gdansk%", "%gdańsk%",
	},
	"portugal": {
		"%portugal%", "%lisbon%", "%lisboa%", "%porto%",
	},
	"remote / anywhere": {
		"%remote%", "%anywhere%", "%worldwide%", "%global%",
	},
	"europe": {
		"%europe%", "%emea%", "%united kingdom%", "%germany%", "%france%",
		"%netherlands%", "%ireland%", "%spain%", "%italy%", "%sweden%",
		"%switzerland%", "%poland%", "%portugal%", "%belgium%", "%austria%",
		"%denmark%", "%norway%", "%finland%", "%czech%", "%romania%", "%greece%",
	},
}

// RegionLabels returns the canonical region labels, sorted for display
func RegionLabels() []string {
	labels := make([]string, 0, len(regionPatterns))
	for label := range regionPatterns {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// RegionPatterns returns the LIKE patterns for a region label, or nil for
// an unknown label
func RegionPatterns(label string) []string {
	return regionPatterns[strings.ToLower(strings.TrimSpace(label))]
}
