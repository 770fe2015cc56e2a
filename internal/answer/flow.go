package answer

import (
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// FlowName is the registered name of the answer flow in Genkit.
const FlowName = "treatybot/answer"

// Flow is the type alias for the answer flow.
// Exported for use in the api package with genkit.Handler().
type Flow = core.Flow[Request, Response, struct{}]

// DefineFlow registers the answer pipeline as a Genkit flow, giving it
// DevUI tracing and an http.Handler via genkit.Handler().
//
// genkit.DefineFlow panics on re-registration; call once per process.
func (p *Pipeline) DefineFlow(g *genkit.Genkit) *Flow {
	return genkit.DefineFlow(g, FlowName, p.Answer)
}
