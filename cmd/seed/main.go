package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"taskboard/internal/logging"
)

const defaultAPIURL = "http://localhost:3000/api/v1"

var demoTasks = []string{
	"Read the API docs at /swagger/index.html",
	"Create a task from the browser",
	"Mark this task as done",
}

// seedUser is the account created by the seed script.
type seedUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func main() {
	log := logging.New(os.Stdout, "info")
	ctx := context.Background()

	apiURL := strings.TrimRight(getEnv("SEED_API_URL", defaultAPIURL), "/")
	user := seedUser{
		Name:     getEnv("SEED_NAME", "Demo User"),
		Email:    getEnv("SEED_EMAIL", "demo@example.com"),
		Password: getEnv("SEED_PASSWORD", "demo-password"),
	}

	client := &http.Client{Timeout: 10 * time.Second}
	log.Info(ctx, "seeding", "api", apiURL, "email", user.Email)

	created, err := seed(ctx, client, apiURL, user, demoTasks)
	if err != nil {
		log.Error(ctx, "seed failed", "error", err)
		os.Exit(1)
	}

	log.Info(ctx, "seed completed", "tasks_created", created)
}

// seed registers user (an existing account is reused), logs in and creates
// one task per title. It returns how many tasks were created.
func seed(ctx context.Context, client *http.Client, apiURL string, user seedUser, titles []string) (int, error) {
	status, _, err := call(ctx, client, http.MethodPost, apiURL+"/auth/register", "", user)
	if err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusBadRequest {
		return 0, fmt.Errorf("register returned status code: %d", status)
	}

	status, body, err := call(ctx, client, http.MethodPost, apiURL+"/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": user.Password,
	})
	if err != nil {
		return 0, fmt.Errorf("login: %w", err)
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("login returned status code: %d: %s", status, body)
	}

	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		return 0, fmt.Errorf("failed to parse login response: %w", err)
	}

	created := 0
	for _, title := range titles {
		status, body, err := call(ctx, client, http.MethodPost, apiURL+"/tasks", login.Token, map[string]string{"title": title})
		if err != nil {
			return created, fmt.Errorf("create task %q: %w", title, err)
		}
		if status != http.StatusCreated {
			return created, fmt.Errorf("create task %q returned status code: %d: %s", title, status, body)
		}
		created++
	}

	return created, nil
}

func call(ctx context.Context, client *http.Client, method, url, token string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
