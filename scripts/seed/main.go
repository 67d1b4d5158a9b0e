// Package main implements a standalone seed script that populates a running
// Bestopia server with demo review pages. It signs in as the admin account
// and drives the same admin HTTP API the dashboard uses, so the full
// ingestion pipeline (TSV parsing, reviewer assignment, rating synthesis)
// runs for every seeded review.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var (
	baseURL       = getEnv("BESTOPIA_URL", "http://localhost:8080")
	adminEmail    = getEnv("ADMIN_EMAIL", "admin@bestopia.net")
	adminPassword = getEnv("ADMIN_PASSWORD", "changeme")
)

var client = &http.Client{Timeout: 120 * time.Second}

func post(path, token string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode, raw)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func signIn() (string, error) {
	out, err := post("/api/v1/auth/signin", "", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	if err != nil {
		return "", err
	}
	data, _ := out["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		return "", fmt.Errorf("signin response carried no token")
	}
	return token, nil
}

type seedReview struct {
	Title    string
	Subtitle string
	Tags     string
	Gender   string
	Details  string
	Opinions string
}

var seedReviews = []seedReview{
	{
		Title:    "Best Wireless Mice 2026",
		Subtitle: "Six weeks of daily driving, one clear winner",
		Tags:     "mice, office, gaming",
		Gender:   "all",
		Details: "name\tdescription\timage_url\tproduct_page\n" +
			"Logitech MX Master 3S\tQuiet clicks and an 8K DPI sensor; the default pick for office work.\t\t\n" +
			"Razer Basilisk V3\tEleven programmable buttons and a bright RGB underglow.\t\t\n" +
			"Apple Magic Mouse\tSeamless with macOS, divisive with everything else.\t\t",
		Opinions: "review_text\n" +
			"The scroll wheel alone is worth the upgrade. Flawless across three monitors.\n" +
			"Heavy, but every button earns its place once you remap them.\n" +
			"Looks beautiful on the desk. Charging port placement remains a mystery.",
	},
	{
		Title:    "Best Budget Mechanical Keyboards",
		Subtitle: "Under $80 and none of them feel cheap",
		Tags:     "keyboards, mechanical, budget",
		Gender:   "all",
		Details: "name\tdescription\timage_url\tproduct_page\n" +
			"Keychron V3\tGasket-mounted, hot-swappable, and shockingly solid for the price.\t\t\n" +
			"Royal Kludge RK84\tWireless tri-mode with a battery that lasts weeks.\t\t",
		Opinions: "review_text\n" +
			"Swapped the switches twice already. The stock ones were fine; I am not.\n" +
			"Connected to three devices at once and it never dropped a keystroke.",
	},
	{
		Title:    "Best Robot Vacuums for Pet Hair",
		Subtitle: "Tested in a two-dog household",
		Tags:     "home, vacuums, pets",
		Gender:   "woman",
		Details: "name\tdescription\timage_url\tproduct_page\n" +
			"Roborock S8\tDual rubber brushes that genuinely resist hair tangles.\t\t\n" +
			"iRobot Roomba j7+\tRecognizes and avoids pet accidents; empties itself.\t\t\n" +
			"Eufy X10 Pro\tMops and vacuums in one pass without grinding the carpet.\t\t",
		Opinions: "review_text\n" +
			"Two golden retrievers and the brush is still clean after a month.\n" +
			"The obstacle avoidance is not marketing. It has never eaten a charging cable.\n" +
			"The mop lifts on carpet like it says it does. Quietest of the three.",
	},
}

func main() {
	log.SetFlags(0)

	token, err := signIn()
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("signed in as %s", adminEmail)

	for _, r := range seedReviews {
		out, err := post("/api/v1/admin/reviews", token, map[string]string{
			"title":               r.Title,
			"subtitle":            r.Subtitle,
			"tags":                r.Tags,
			"gender":              r.Gender,
			"product_details_tsv": r.Details,
			"product_reviews_tsv": r.Opinions,
		})
		if err != nil {
			log.Printf("skip %q: %v", r.Title, err)
			continue
		}
		data, _ := out["data"].(map[string]any)
		slug, _ := data["slug"].(string)
		log.Printf("created review %q -> /reviews/%s", r.Title, slug)
	}

	log.Println("seed complete")
}
