package payload

// Slide is one entry of a structured deck.
type Slide struct {
	Title    string `json:"title" mapstructure:"title"`
	Findings string `json:"findings" mapstructure:"findings"`
}

// Deck is the structured-deck form of the request input.
type Deck struct {
	Title  string  `json:"title" mapstructure:"title"`
	Slides []Slide `json:"slides" mapstructure:"slides"`
}

// ResearchQuery is the query-only form of the request input. The service runs
// its deep research mode when it receives one.
type ResearchQuery struct {
	Query string `json:"query"`
}

// Request is the body POSTed to the generate endpoint.
type Request struct {
	Input any `json:"input"`
}

func NewDeckRequest(deck Deck) Request {
	return Request{Input: deck}
}

func NewResearchRequest(query string) Request {
	return Request{Input: ResearchQuery{Query: query}}
}
