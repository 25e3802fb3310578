// Seeds the directory with clinics from a JSON file through the admin API.
//
// Usage: go run scripts/seed-clinics.go <clinics-file.json>
// Requires API_URL (default http://localhost:8080) and ADMIN_TOKEN.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type seedClinic struct {
	Name               string            `json:"name"`
	Street             string            `json:"street"`
	City               string            `json:"city"`
	State              string            `json:"state"`
	Postcode           string            `json:"postcode"`
	Phone              string            `json:"phone,omitempty"`
	Email              string            `json:"email,omitempty"`
	Website            string            `json:"website,omitempty"`
	Emergency          bool              `json:"emergency"`
	EmergencyHours     string            `json:"emergency_hours,omitempty"`
	Hours              map[string]string `json:"hours,omitempty"`
	AnimalsTreated     []string          `json:"animals_treated,omitempty"`
	Specializations    []string          `json:"specializations,omitempty"`
	ServicesOffered    []string          `json:"services_offered,omitempty"`
	VerificationStatus string            `json:"verification_status,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/seed-clinics.go <clinics-file.json>")
		os.Exit(1)
	}

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		fmt.Println("ADMIN_TOKEN is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("read file: %v\n", err)
		os.Exit(1)
	}

	var clinics []seedClinic
	if err := json.Unmarshal(data, &clinics); err != nil {
		fmt.Printf("parse JSON: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	created := 0
	for _, c := range clinics {
		body, err := json.Marshal(c)
		if err != nil {
			fmt.Printf("marshal %s: %v\n", c.Name, err)
			continue
		}
		req, err := http.NewRequest(http.MethodPost, apiURL+"/admin/clinics", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("build request for %s: %v\n", c.Name, err)
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("create %s: %v\n", c.Name, err)
			continue
		}
		if resp.StatusCode != http.StatusCreated {
			msg, _ := io.ReadAll(resp.Body)
			fmt.Printf("create %s: status %d: %s\n", c.Name, resp.StatusCode, msg)
		} else {
			created++
			fmt.Printf("created %s\n", c.Name)
		}
		resp.Body.Close()
	}

	fmt.Printf("done: %d/%d clinics created\n", created, len(clinics))
}
