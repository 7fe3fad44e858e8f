package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/smartinsure/claimpilot/internal/llm"
	"github.com/smartinsure/claimpilot/internal/models"
)

// Greeting is the assistant's opening message for a new conversation.
const Greeting = "Hello! I'm your insurance claim assistant. I can help you with questions about your claim, explain insurance terms, or provide guidance on the claim process. How can I assist you today?"

// domainPrompt keeps the LLM on insurance and BFSI topics only.
const domainPrompt = `You are a helpful assistant specializing in insurance claims and BFSI (Banking, Financial Services, and Insurance). Only answer questions within these domains. If asked something outside this scope, respond with: "I'm designed to assist only with insurance and BFSI-related queries."`

// Assistant answers claim questions. With a provider configured it asks the
// LLM; on provider failure, or with no provider at all, it falls back to the
// scripted keyword responder so the chat always answers.
type Assistant struct {
	provider llm.Provider // may be nil
}

// NewAssistant creates an assistant. Provider may be nil for offline mode.
func NewAssistant(provider llm.Provider) *Assistant {
	return &Assistant{provider: provider}
}

// Reply answers one user message. The returned source is "llm" or "scripted".
func (a *Assistant) Reply(ctx context.Context, record models.ClaimRecord, question string) (string, string) {
	if a.provider != nil {
		opts := llm.DefaultCompletionOptions()
		response, err := a.provider.CompleteWithSystem(ctx, domainPrompt, question, opts)
		if err == nil && strings.TrimSpace(response) != "" {
			return strings.TrimSpace(response), "llm"
		}
		if err != nil {
			log.Warn().Err(err).Str("provider", a.provider.Name()).Msg("LLM chat failed, using scripted reply")
		}
	}
	return scriptedReply(record, question), "scripted"
}

// scriptedReply is the keyword-matched response table used when no LLM is
// available. Rules are checked in order; the first match wins.
func scriptedReply(record models.ClaimRecord, question string) string {
	q := strings.ToLower(question)

	switch {
	case containsAnyWord(q, "status", "track"):
		return "Based on your submitted documents and claim details, your claim is currently in the initial review stage. Typically, claims are processed within 7-15 business days. You'll receive updates via email and SMS."

	case containsAnyWord(q, "document", "paper"):
		claimType := "your"
		if record.ClaimType != models.ClaimTypeUnset {
			claimType = string(record.ClaimType)
		}
		return fmt.Sprintf("For %s claims, you typically need: hospital bills, discharge summary, ID proof, and policy documents. I can see you've uploaded some documents already. Make sure all documents are clear and legible.", claimType)

	case containsAnyWord(q, "amount", "money", "payout"):
		return "Claim amounts depend on your policy coverage, deductibles, and the specific incident. Based on your estimated amount, I'd recommend getting a detailed estimate using our AI estimator tool. The final amount will be determined after claim verification."

	case containsAnyWord(q, "time", "how long"):
		return "Insurance claim processing typically takes 7-21 business days, depending on the complexity and completeness of documentation. Simple claims with complete documentation are processed faster."

	case containsAnyWord(q, "reject", "denied"):
		return "Claims can be rejected for various reasons: incomplete documentation, policy exclusions, late reporting, or pre-existing conditions. If rejected, you can appeal with additional documentation or clarification."

	case containsAnyWord(q, "hello", "hi"):
		return "Hello! I'm here to help with your insurance claim. Feel free to ask me about claim status, required documents, processing times, or any other insurance-related questions."

	default:
		return "Thank you for your question. Based on your claim details, I recommend ensuring all required documents are submitted and following up with your insurance provider if needed. Is there anything specific about your claim process you'd like me to explain?"
	}
}

func containsAnyWord(s string, tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
