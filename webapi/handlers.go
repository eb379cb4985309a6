package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tempnet/tempnet/graph"
	"github.com/tempnet/tempnet/stats"
)

type summaryResponse struct {
	Steps       int                   `json:"steps"`
	Granularity int                   `json:"granularity"`
	Cumulative  bool                  `json:"cumulative"`
	Nodes       int                   `json:"nodes"`
	Attributes  []attributeDescriptor `json:"attributes"`
}

type attributeDescriptor struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Scope      string   `json:"scope"`
	Categories []string `json:"categories,omitempty"`
	Min        float64  `json:"min,omitempty"`
	Max        float64  `json:"max,omitempty"`
}

type edgeResponse struct {
	Nodes      [2]int `json:"nodes"`
	Count      int    `json:"count"`
	Timestamps []int  `json:"timestamps"`
}

type nodeResponse struct {
	ID     int                             `json:"id"`
	Global map[string]graph.AttributeValue `json:"global_attributes"`
	Local  []string                        `json:"local_attributes"`
}

func (svc *Service) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (svc *Service) summary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, svc.summarize())
}

func (svc *Service) summarize() summaryResponse {
	res := summaryResponse{
		Steps:       svc.tg.Len(),
		Granularity: svc.tg.Granularity(),
		Cumulative:  svc.tg.Cumulative(),
		Nodes:       len(svc.tg.Nodes()),
	}
	catalog := svc.tg.AttributesInfo()
	for _, info := range catalog {
		res.Attributes = append(res.Attributes, attributeDescriptor{
			Name:       info.Name,
			Type:       info.Type.String(),
			Scope:      info.Scope.String(),
			Categories: info.Categories,
			Min:        info.Min,
			Max:        info.Max,
		})
	}
	sortDescriptors(res.Attributes)
	return res
}

func (svc *Service) stepEdges(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(mux.Vars(r)["step"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "step must be an integer")
		return
	}

	g, err := svc.tg.At(step)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	edges := make([]edgeResponse, 0, g.Len())
	for _, edge := range g.Edges() {
		a, b := edge.IncidentNodes()
		edges = append(edges, edgeResponse{
			Nodes:      [2]int{a, b},
			Count:      edge.Count(),
			Timestamps: edge.Timestamps(),
		})
	}
	writeJSON(w, http.StatusOK, edges)
}

func (svc *Service) nodes(w http.ResponseWriter, _ *http.Request) {
	nodes := svc.tg.Nodes()
	ids := make([]int, len(nodes))
	for i, node := range nodes {
		ids[i] = node.ID()
	}
	writeJSON(w, http.StatusOK, ids)
}

func (svc *Service) node(w http.ResponseWriter, r *http.Request) {
	node, ok := svc.lookupNode(w, r)
	if !ok {
		return
	}

	res := nodeResponse{
		ID:     node.ID(),
		Global: make(map[string]graph.AttributeValue),
		Local:  node.LocalAttributeNames(),
	}
	for _, name := range node.GlobalAttributeNames() {
		if value, err := node.GlobalAttribute(name); err == nil {
			res.Global[name] = value
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (svc *Service) nodeAttribute(w http.ResponseWriter, r *http.Request) {
	node, ok := svc.lookupNode(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]

	if stepParam := r.URL.Query().Get("step"); stepParam != "" {
		step, err := strconv.Atoi(stepParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "step must be an integer")
			return
		}
		value, err := node.LocalAttribute(name, step)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, value)
		return
	}

	value, err := node.GlobalAttribute(name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (svc *Service) edgeStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stats.TotalEdgesPerStep(svc.tg.Graphs()))
}

func (svc *Service) lookupNode(w http.ResponseWriter, r *http.Request) (*graph.TemporalNode, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "node id must be an integer")
		return nil, false
	}
	node, err := svc.tg.Node(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return node, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrUnknownAttribute), errors.Is(err, graph.ErrUnknownNode):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrStepOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func sortDescriptors(descriptors []attributeDescriptor) {
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
}

// summaryPage renders a minimal HTML overview. Attribute names and category
// values come from untrusted input files, so everything interpolated into the
// page body is run through the sanitizer first.
func (svc *Service) summaryPage(w http.ResponseWriter, _ *http.Request) {
	res := svc.summarize()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><head><title>tempnet</title></head><body>")
	fmt.Fprintf(w, "<h1>Temporal graph</h1>")
	fmt.Fprintf(w, "<p>%d time steps at granularity %d, %d nodes.</p>", res.Steps, res.Granularity, res.Nodes)
	fmt.Fprintf(w, "<h2>Attributes</h2><ul>")
	for _, attr := range res.Attributes {
		fmt.Fprintf(w, "<li><b>%s</b> (%s, %s)", svc.policy.Sanitize(attr.Name), attr.Type, attr.Scope)
		if len(attr.Categories) > 0 {
			fmt.Fprintf(w, "<ul>")
			for _, category := range attr.Categories {
				fmt.Fprintf(w, "<li>%s</li>", svc.policy.Sanitize(category))
			}
			fmt.Fprintf(w, "</ul>")
		}
		fmt.Fprintf(w, "</li>")
	}
	fmt.Fprintf(w, "</ul></body></html>")
}
