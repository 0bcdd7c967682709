package handler

import (
	"net/http"
)

const Version = "0.3.0"

type Index struct{}

func (s *Index) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	writeJSON(w, http.StatusOK, &Info{
		Welcome: "Welcome",
		Version: Version,
		Features: []string{
			"reports",
			"mapreduce",
			"search",
		},
		Vendor: Vendor{
			Name: "goyreport",
		},
	})
}

type Info struct {
	Welcome  string   `json:"goyreport"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
	Vendor   Vendor   `json:"vendor"`
}

type Vendor struct {
	Name string `json:"name"`
}
