package assistant

import (
	"context"
	"encoding/json"
	"strings"

	"pdfchat/internal/models"
	"pdfchat/internal/service/ai"
)

const (
	// Both prompts pin the answer to {"reply": "..."} so UnwrapReply can find it.
	chatSystemPrompt = `You must respond with a valid JSON object only. ` +
		`Use this exact format: {"reply": "your answer here"}. ` +
		`Put your entire answer as the value of the "reply" key. ` +
		`Use plain text only inside the reply; do not use markdown (no **, no #, no bullet lists). ` +
		`Escape any quotes inside the reply.`

	summarySystemPrompt = `You must respond with a valid JSON object only. ` +
		`Use this exact format: {"reply": "your answer here"}. ` +
		`Put your entire summary as the value of the "reply" key. ` +
		`Use plain text only inside the reply; do not use markdown (no **, no #, no bullet lists). ` +
		`Escape any quotes inside the reply. ` +
		`Provide a clear, concise summary of the document.`

	defaultSummaryInstruction = "Summarize the following document."
	noResponseReply           = "No response from the assistant."
)

// summaryPrompt prepends the caller's instruction, or the default one, to the document text.
func summaryPrompt(instruction, text string) string {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		instruction = defaultSummaryInstruction
	}
	return instruction + "\n\nDocument content:\n" + text
}

// complete asks the provider once and unwraps its answer.
func (s *Service) complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	raw, err := s.completer.Complete(ctx, []*models.Message{
		models.SystemMessage(systemPrompt),
		models.UserMessage(userContent),
	})
	if err != nil {
		return "", newError(KindUpstreamError, ai.ProviderMessage(err), err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return noResponseReply, nil
	}
	return UnwrapReply(raw), nil
}

// UnwrapReply returns the "reply" string when raw is a JSON object carrying one,
// and raw itself otherwise. Providers that ignore the JSON instruction still get through.
func UnwrapReply(raw string) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return raw
	}
	field, ok := envelope["reply"]
	if !ok {
		return raw
	}
	var reply string
	if err := json.Unmarshal(field, &reply); err != nil {
		return raw
	}
	return reply
}
