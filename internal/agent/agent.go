package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/llm"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// toolGetCryptoPrice is the single tool exposed to the model. It takes no
// arguments; the asset and currency are fixed by configuration.
const toolGetCryptoPrice = "get_crypto_price"

// History persists and replays conversation messages.
type History interface {
	Append(ctx context.Context, conversationID uint, role llm.Role, content string) error
	Recent(ctx context.Context, conversationID uint, limit int) ([]llm.Message, error)
}

// Retriever looks up knowledge-base chunks relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]*schema.Document, error)
}

// PriceResolver answers spot-price lookups, typically through a cache.
type PriceResolver interface {
	Price(ctx context.Context, asset, currency string) (float64, error)
}

// Config carries the per-turn knobs of the agent.
type Config struct {
	TopK         int     // knowledge-base chunks injected into the prompt
	HistoryLimit int     // prior messages replayed into the prompt
	MaxTokens    int     // generation cap per model call
	Temperature  float32 // sampling temperature
	Asset        string  // e.g. "bitcoin"
	Currency     string  // e.g. "INR"
}

// Agent runs the two-round conversation loop: one model call that may request
// the price tool, at most one more to fold the tool result into an answer.
type Agent struct {
	llm       llm.LLM
	retriever Retriever
	prices    PriceResolver
	history   History
	log       *logger.Logger
	cfg       Config
}

// New creates an Agent. retriever may be nil, which disables knowledge-base
// retrieval; prices may be nil, in which case tool calls always resolve to
// an unavailable-price result.
func New(model llm.LLM, retriever Retriever, prices PriceResolver, history History, log *logger.Logger, cfg Config) *Agent {
	return &Agent{
		llm:       model,
		retriever: retriever,
		prices:    prices,
		history:   history,
		log:       log,
		cfg:       cfg,
	}
}

// TurnResult summarizes one processed conversation turn.
type TurnResult struct {
	Answer        string
	UsedRetrieval bool
	UsedTool      bool
	ModelCalls    int
}

// ProcessTurn handles one user input within a conversation: persist it,
// optionally retrieve context, call the model, resolve at most one tool call,
// and persist the final answer.
//
// A retrieval failure degrades to an empty context; a price-fetch failure
// degrades to an unavailable-price tool result. Neither aborts the turn.
// The second model call carries no tools, so a turn never exceeds two calls.
func (a *Agent) ProcessTurn(ctx context.Context, conversationID uint, input string) (*TurnResult, error) {
	recent, err := a.history.Recent(ctx, conversationID, a.cfg.HistoryLimit)
	if err != nil {
		return nil, turnErr("history", fmt.Errorf("load recent messages: %w", err))
	}
	if err := a.history.Append(ctx, conversationID, llm.RoleUser, input); err != nil {
		return nil, turnErr("history", fmt.Errorf("append user message: %w", err))
	}

	result := &TurnResult{}

	ragContext := ""
	if a.retriever != nil && shouldRetrieve(input) {
		docs, err := a.retriever.Retrieve(ctx, input, a.cfg.TopK)
		if err != nil {
			// Degrade to an uninformed answer rather than failing the turn.
			a.log.WithError(err).Warn("Retrieval failed, answering without knowledge-base context")
		} else if len(docs) > 0 {
			ragContext = joinChunks(docs)
			result.UsedRetrieval = true
		}
	}

	messages := make([]llm.Message, 0, len(recent)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: a.systemPrompt(ragContext)})
	messages = append(messages, recent...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})

	reply, err := a.llm.Chat(ctx, &llm.ChatRequest{
		Messages:    messages,
		Tools:       a.tools(),
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, turnErr("model", err)
	}
	result.ModelCalls = 1

	var answer string
	switch r := reply.(type) {
	case *llm.TextReply:
		answer = r.Text

	case *llm.ToolCallReply:
		result.UsedTool = true
		toolContent := a.resolveTool(ctx, r.Name)

		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: r.Text, ToolCallID: r.CallID, ToolName: r.Name},
			llm.Message{Role: llm.RoleTool, Content: toolContent, ToolCallID: r.CallID, ToolName: r.Name},
		)

		// No tools on the second call, so the model must answer in text.
		final, err := a.llm.Chat(ctx, &llm.ChatRequest{
			Messages:    messages,
			MaxTokens:   a.cfg.MaxTokens,
			Temperature: a.cfg.Temperature,
		})
		if err != nil {
			return nil, turnErr("model", err)
		}
		result.ModelCalls = 2
		answer = replyText(final)

	default:
		return nil, turnErr("model", fmt.Errorf("unexpected reply type %T", reply))
	}

	if err := a.history.Append(ctx, conversationID, llm.RoleAssistant, answer); err != nil {
		// The answer is already computed; losing the persisted copy is the
		// lesser failure.
		a.log.WithError(err).Error("Failed to persist assistant message")
	}

	result.Answer = answer
	return result, nil
}

// resolveTool produces the tool-result content for the model's tool call.
// Unknown tool names and fetch failures both resolve to an unavailable-price
// result so the model can still produce a coherent answer.
func (a *Agent) resolveTool(ctx context.Context, name string) string {
	if name != toolGetCryptoPrice {
		a.log.Warn(fmt.Sprintf("Model requested unknown tool %q", name))
		return "The requested information is currently unavailable."
	}
	if a.prices == nil {
		return fmt.Sprintf("The current %s price is unavailable right now.", a.cfg.Asset)
	}
	price, err := a.prices.Price(ctx, a.cfg.Asset, a.cfg.Currency)
	if err != nil {
		a.log.WithError(err).Warn("Price fetch failed, reporting unavailable to the model")
		return fmt.Sprintf("The current %s price is unavailable right now.", a.cfg.Asset)
	}
	return fmt.Sprintf("Current %s price in %s: %s", a.cfg.Asset, a.cfg.Currency, formatPrice(price))
}

// systemPrompt builds the system message, injecting retrieved context when
// present.
func (a *Agent) systemPrompt(ragContext string) string {
	var b strings.Builder
	b.WriteString("You are a helpful Bitcoin AI assistant with access to:\n")
	fmt.Fprintf(&b, "1. Real-time %s prices in %s\n", a.cfg.Asset, a.cfg.Currency)
	b.WriteString("2. A Bitcoin knowledge base\n")
	b.WriteString("Provide accurate, helpful information about Bitcoin. ")
	b.WriteString("Use the price tool when the user asks about the current price; the tool is correct and updated. ")
	b.WriteString("If the user writes in another language, answer properly in English.")
	if ragContext != "" {
		b.WriteString("\n\nRelevant context from the knowledge base:\n")
		b.WriteString(ragContext)
	}
	return b.String()
}

func (a *Agent) tools() []llm.Tool {
	return []llm.Tool{{
		Name:        toolGetCryptoPrice,
		Description: fmt.Sprintf("Get current price of %s in %s", a.cfg.Asset, a.cfg.Currency),
	}}
}

// joinChunks concatenates retrieved chunk texts in ascending-distance order.
func joinChunks(docs []*schema.Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Text == "" {
			continue
		}
		parts = append(parts, doc.Text)
	}
	return strings.Join(parts, "\n\n")
}

// replyText extracts whatever text a reply carries.
func replyText(reply llm.Reply) string {
	switch r := reply.(type) {
	case *llm.TextReply:
		return r.Text
	case *llm.ToolCallReply:
		return r.Text
	default:
		return ""
	}
}

// formatPrice renders a price without scientific notation and without
// trailing zero noise.
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
