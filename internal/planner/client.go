package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Source produces meal plans constrained to current stock. Failures here
// short-circuit before any reconciliation begins; there is no retry logic.
type Source interface {
	Plan(ctx context.Context, req PlanRequest) ([]Dish, error)
}

// PlanRequest carries the operator's constraints for a menu.
type PlanRequest struct {
	Customers        int
	TimeLimitMinutes int
	Dishes           int // how many dishes to suggest; defaults to 3
}

// Dish is one suggested dish with the ingredient usages it implies.
type Dish struct {
	Name          string
	EstimatedTime string
	Ingredients   []types.PlannedIngredient
}

// Ingredients flattens the dishes' usages into one batch for the
// reconciliation engine.
func Ingredients(dishes []Dish) []types.PlannedIngredient {
	var all []types.PlannedIngredient
	for _, d := range dishes {
		all = append(all, d.Ingredients...)
	}
	return all
}

// Config holds the chat-completions endpoint parameters.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string

	// HTTPClient is replaceable in tests; nil means a 60s-timeout client.
	HTTPClient *http.Client
}

// Client calls an OpenAI-compatible chat completions endpoint and resolves
// the suggested ingredient names against the catalog.
type Client struct {
	config Config
	http   *http.Client
	ledger types.Ledger
}

var _ Source = (*Client)(nil)

// NewClient creates a planning client. The ledger supplies the inventory
// snapshot for the prompt and the catalog for name resolution.
func NewClient(config Config, ledger types.Ledger) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{config: config, http: httpClient, ledger: ledger}
}

// Chat completions wire shapes (request/response contract is fixed by the
// external endpoint; only the fields larder reads are declared).
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// menuResponse is the JSON shape the prompt instructs the model to emit.
type menuResponse struct {
	Recommendations []struct {
		DishName        string `json:"dish_name"`
		EstimatedTime   string `json:"estimated_time"`
		IngredientsUsed []struct {
			Name     string   `json:"name"`
			Quantity *float64 `json:"quantity"`
			Unit     string   `json:"unit"`
		} `json:"ingredients_used"`
	} `json:"recommendations"`
}

// Plan builds an inventory-constrained prompt, calls the text model, and
// maps the suggested ingredients to tagged catalog references. Ingredients
// the catalog does not know become unknown references, which the engine
// reports as shortages without touching stock.
func (c *Client) Plan(ctx context.Context, req PlanRequest) ([]Dish, error) {
	prompt, err := c.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var menu menuResponse
	if err := json.Unmarshal([]byte(content), &menu); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if len(menu.Recommendations) == 0 {
		return nil, fmt.Errorf("%w: no recommendations", ErrMalformedPlan)
	}

	dishes := make([]Dish, 0, len(menu.Recommendations))
	for _, rec := range menu.Recommendations {
		dish := Dish{Name: rec.DishName, EstimatedTime: rec.EstimatedTime}
		for _, ing := range rec.IngredientsUsed {
			if ing.Name == "" || ing.Quantity == nil || *ing.Quantity < 0 {
				return nil, fmt.Errorf("%w: dish %q has a malformed ingredient", ErrMalformedPlan, rec.DishName)
			}
			dish.Ingredients = append(dish.Ingredients, types.PlannedIngredient{
				Ref:         c.resolve(ing.Name),
				Quantity:    *ing.Quantity,
				Unit:        ing.Unit,
				DisplayName: ing.Name,
			})
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

// resolve maps an ingredient name to a catalog reference.
func (c *Client) resolve(name string) types.ItemRef {
	item, err := c.ledger.GetItemByName(name)
	if err != nil {
		return types.UnknownItem()
	}
	return types.KnownItem(item.ItemID)
}

// buildPrompt renders the current inventory into the menu prompt.
func (c *Client) buildPrompt(req PlanRequest) (string, error) {
	entries, err := c.ledger.ListStock()
	if err != nil {
		return "", fmt.Errorf("snapshot inventory: %w", err)
	}

	var inventory []string
	for _, e := range entries {
		item, err := c.ledger.GetItem(e.ItemID)
		if err != nil {
			return "", fmt.Errorf("snapshot inventory: %w", err)
		}
		inventory = append(inventory,
			fmt.Sprintf("%s (%s %s)", item.Name, strconv.FormatFloat(e.Quantity, 'f', -1, 64), item.Unit))
	}
	if len(inventory) == 0 {
		return "", errors.New("pantry is empty, nothing to plan with")
	}

	dishCount := req.Dishes
	if dishCount <= 0 {
		dishCount = 3
	}

	return fmt.Sprintf(`You are a head chef planning from a fixed pantry.
Current inventory: %s.
Constraints: serve %d people within %d minutes. Use only inventory items.
Suggest %d dishes. Output JSON only, in this exact shape:
{"recommendations": [{"dish_name": "...", "estimated_time": "...", "ingredients_used": [{"name": "Rice", "quantity": 2, "unit": "kg"}]}]}`,
		strings.Join(inventory, ", "), req.Customers, req.TimeLimitMinutes, dishCount), nil
}

// complete posts one chat completion request and returns the message body.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.config.Model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call planner endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("planner endpoint returned %s", resp.Status)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrMalformedPlan)
	}
	return chat.Choices[0].Message.Content, nil
}
