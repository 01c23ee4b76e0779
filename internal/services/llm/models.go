package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

const modelListTimeout = 5 * time.Second

// OWUIModel is one model exposed by an Open WebUI gateway. IDs are the
// gateway's own; the picker adds the owui: routing prefix on selection.
type OWUIModel struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CloudModel is one curated cloud model with its key status
type CloudModel struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	HasKey   bool   `json:"has_key"`
}

// ModelCatalog groups everything the model picker needs in one response
type ModelCatalog struct {
	Available     bool         `json:"available"`
	LocalModels   []string     `json:"local_models"`
	OWUIModels    []OWUIModel  `json:"owui_models"`
	OWUIAvailable bool         `json:"owui_available"`
	CloudModels   []CloudModel `json:"cloud_models"`
}

// ListModels collects local Ollama models, Open WebUI gateway models
// and the curated cloud list. Unreachable backends degrade to empty
// groups rather than failing the whole catalog.
func (c *Client) ListModels(ctx context.Context) *ModelCatalog {
	catalog := &ModelCatalog{
		LocalModels: []string{},
		OWUIModels:  []OWUIModel{},
		CloudModels: []CloudModel{},
	}

	local, err := c.listOllamaModels(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Ollama not reachable for model listing")
	} else {
		catalog.Available = true
		catalog.LocalModels = local
	}

	seen := map[string]bool{}
	for _, name := range local {
		seen[name] = true
	}

	if c.config.OpenWebUI.BaseURL != "" {
		owui, err := c.listOWUIModels(ctx)
		if err != nil {
			c.logger.Debug().Err(err).Msg("Open WebUI not reachable for model listing")
		} else {
			catalog.OWUIAvailable = true
			// The gateway mirrors local Ollama models; drop those duplicates
			for _, model := range owui {
				if seen[model.ID] {
					continue
				}
				catalog.OWUIModels = append(catalog.OWUIModels, model)
			}
			sort.Slice(catalog.OWUIModels, func(i, j int) bool {
				return strings.ToLower(catalog.OWUIModels[i].Label) < strings.ToLower(catalog.OWUIModels[j].Label)
			})
		}
	}

	for _, id := range c.config.CloudModels {
		provider := DetectProvider(id)
		catalog.CloudModels = append(catalog.CloudModels, CloudModel{
			ID:       id,
			Provider: provider,
			HasKey:   c.hasKey(provider),
		})
	}

	return catalog
}

func (c *Client) hasKey(provider string) bool {
	switch provider {
	case "openai":
		return c.config.OpenAI.APIKey != ""
	case "anthropic":
		return c.config.Anthropic.APIKey != ""
	case "google":
		return c.config.Google.APIKey != ""
	default:
		return true
	}
}

func (c *Client) getJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, modelListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
	return json.Unmarshal(data, out)
}

func (c *Client) listOllamaModels(ctx context.Context) ([]string, error) {
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	url := strings.TrimRight(c.config.Ollama.BaseURL, "/") + "/api/tags"
	if err := c.getJSON(ctx, url, nil, &result); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Models))
	for _, model := range result.Models {
		if model.Name != "" {
			names = append(names, model.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (c *Client) listOWUIModels(ctx context.Context) ([]OWUIModel, error) {
	var result struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	url := strings.TrimRight(c.config.OpenWebUI.BaseURL, "/") + "/api/models"
	headers := map[string]string{}
	if c.config.OpenWebUI.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.config.OpenWebUI.APIKey
	}
	if err := c.getJSON(ctx, url, headers, &result); err != nil {
		return nil, err
	}

	models := make([]OWUIModel, 0, len(result.Data))
	for _, entry := range result.Data {
		if entry.ID == "" {
			continue
		}
		label := entry.Name
		if label == "" {
			label = entry.ID
		}
		models = append(models, OWUIModel{ID: entry.ID, Label: label})
	}
	return models, nil
}
