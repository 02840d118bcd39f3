package http

import (
	"net/http"
)

// Step is one stage of a request pipeline. It either continues with a
// (possibly enriched) request, short-circuits with a Response, or fails.
// Returning a nil request continues with the current one.
type Step func(r *http.Request) (*http.Request, *Response, error)

// Endpoint is the terminal handler of a pipeline.
type Endpoint func(r *http.Request) (Response, error)

type Pipeline struct {
	errs  *ErrorHandler
	steps []Step
}

func NewPipeline(errs *ErrorHandler, steps ...Step) Pipeline {
	return Pipeline{errs: errs, steps: steps}
}

// Then returns a new pipeline with steps appended; p is left untouched.
func (p Pipeline) Then(steps ...Step) Pipeline {
	combined := make([]Step, 0, len(p.steps)+len(steps))
	combined = append(combined, p.steps...)
	combined = append(combined, steps...)
	return Pipeline{errs: p.errs, steps: combined}
}

func (p Pipeline) Handle(endpoint Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, step := range p.steps {
			next, resp, err := step(r)
			if err != nil {
				p.errs.HandleError(w, r, err)
				return
			}
			if resp != nil {
				writeResponse(w, *resp)
				return
			}
			if next != nil {
				r = next
			}
		}

		resp, err := endpoint(r)
		if err != nil {
			p.errs.HandleError(w, r, err)
			return
		}
		writeResponse(w, resp)
	}
}

func writeResponse(w http.ResponseWriter, resp Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	WriteJSON(w, status, resp.Body)
}
