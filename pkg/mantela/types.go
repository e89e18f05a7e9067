// Package mantela fetches and decodes per-switch descriptor documents
// ("mantela" documents): the JSON a switch publishes about its own identity,
// its local extensions, and the provider switches it peers with.
package mantela

// AboutMe is the self-identity section of a descriptor. A descriptor without
// one cannot be registered as a switch.
type AboutMe struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

// Extension describes a local line owned by the switch.
type Extension struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Extension string `json:"extension"`
}

// Provider describes an upstream or peer switch reachable via a dialing
// prefix. Mantela, when present, is the URL of the provider's own descriptor;
// a provider may be known without being independently crawlable.
type Provider struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Prefix     string `json:"prefix"`
	Mantela    string `json:"mantela,omitempty"`
}

// Mantela is one decoded descriptor document. All sections are optional;
// fields beyond these are ignored rather than rejected.
type Mantela struct {
	AboutMe    *AboutMe    `json:"aboutMe,omitempty"`
	Extensions []Extension `json:"extensions,omitempty"`
	Providers  []Provider  `json:"providers,omitempty"`
}
