package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/w7-autofill/internal/fields"
	"github.com/joseph-ayodele/w7-autofill/internal/llm"
)

// MapFields implements llm.FieldMapper using text-only chat/completions.
// One attempt, no retry: upstream failures surface to the caller.
func (c *Client) MapFields(ctx context.Context, req llm.MapRequest) (llm.MappedData, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("mapper.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"client", req.ClientName,
		"columns", len(req.RowData),
		"fields", len(req.FieldNames),
	)

	sys := llm.BuildSystemPrompt(req.FieldNames)
	user := llm.BuildUserPrompt(req.RowData)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": sys},
			{"role": "user", "content": user},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		c.logger.Error("mapper.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, fmt.Errorf("mapping service request: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("mapper.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, fmt.Errorf("decode completion response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("mapper.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, fmt.Errorf("no choices in completion response")
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)

	obj, err := llm.ExtractJSONObject(content)
	if err != nil {
		c.logger.Error("mapper.extract.parse_error",
			"req_id", rid, "error", err, "content", content,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, []byte(content), err
	}

	mapped, dropped := llm.NormalizeMappedData(obj, c.logger)

	mappedJSON, err := json.Marshal(mapped)
	if err != nil {
		return nil, []byte(content), fmt.Errorf("re-encode mapped data: %w", err)
	}
	if err := llm.ValidateJSONAgainstSchema(fields.BuildMappedDataSchema(), mappedJSON); err != nil {
		c.logger.Error("mapper.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(mappedJSON),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, mappedJSON, fmt.Errorf("schema validation failed: %w", err)
	}

	c.logger.Info("mapper.extract.ok",
		"req_id", rid,
		"mapped", len(mapped),
		"dropped", len(dropped),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return mapped, mappedJSON, nil
}
