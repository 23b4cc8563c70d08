package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/llm"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// scriptedLLM replays a fixed sequence of replies and records every request.
type scriptedLLM struct {
	replies  []llm.Reply
	requests []*llm.ChatRequest
}

func (s *scriptedLLM) Chat(ctx context.Context, req *llm.ChatRequest) (llm.Reply, error) {
	s.requests = append(s.requests, req)
	if len(s.requests) > len(s.replies) {
		return nil, errors.New("scripted LLM exhausted")
	}
	return s.replies[len(s.requests)-1], nil
}

type fakeRetriever struct {
	docs  []*schema.Document
	err   error
	calls int
	query string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, topK int) ([]*schema.Document, error) {
	f.calls++
	f.query = query
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakePrices struct {
	price float64
	err   error
	calls int
}

func (f *fakePrices) Price(ctx context.Context, asset, currency string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

func testConfig() Config {
	return Config{
		TopK:         3,
		HistoryLimit: 20,
		MaxTokens:    150,
		Temperature:  0.7,
		Asset:        "bitcoin",
		Currency:     "INR",
	}
}

func testLogger() *logger.Logger {
	return logger.New("test", "", "")
}

func TestProcessTurnPriceQuestion(t *testing.T) {
	model := &scriptedLLM{replies: []llm.Reply{
		&llm.ToolCallReply{CallID: "call-1", Name: "get_crypto_price"},
		&llm.TextReply{Text: "Bitcoin is currently trading at 6000000 INR."},
	}}
	prices := &fakePrices{price: 6000000}
	a := New(model, nil, prices, NewMemoryHistory(), testLogger(), testConfig())

	result, err := a.ProcessTurn(context.Background(), 1, "What is the current price of bitcoin?")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "6000000")
	assert.True(t, result.UsedTool)
	assert.Equal(t, 2, result.ModelCalls)
	assert.Equal(t, 1, prices.calls)

	require.Len(t, model.requests, 2)
	assert.NotEmpty(t, model.requests[0].Tools, "first call must offer the price tool")
	assert.Empty(t, model.requests[1].Tools, "second call must not offer tools")

	// The tool result and its assistant echo are threaded into the second call.
	second := model.requests[1].Messages
	var toolMsg *llm.Message
	for i := range second {
		if second[i].Role == llm.RoleTool {
			toolMsg = &second[i]
		}
	}
	require.NotNil(t, toolMsg)
	assert.Equal(t, "call-1", toolMsg.ToolCallID)
	assert.Contains(t, toolMsg.Content, "6000000")
}

func TestProcessTurnKnowledgeQuestion(t *testing.T) {
	model := &scriptedLLM{replies: []llm.Reply{
		&llm.TextReply{Text: "The whitepaper describes a peer-to-peer electronic cash system."},
	}}
	retriever := &fakeRetriever{docs: []*schema.Document{
		{ID: "c1", Text: "Bitcoin: A Peer-to-Peer Electronic Cash System."},
		{ID: "c2", Text: "Proof-of-work chains secure the ledger."},
	}}
	a := New(model, retriever, &fakePrices{}, NewMemoryHistory(), testLogger(), testConfig())

	result, err := a.ProcessTurn(context.Background(), 1, "What does the bitcoin whitepaper say?")
	require.NoError(t, err)

	assert.True(t, result.UsedRetrieval)
	assert.False(t, result.UsedTool)
	assert.Equal(t, 1, result.ModelCalls)
	assert.Equal(t, 1, retriever.calls)

	require.NotEmpty(t, model.requests)
	system := model.requests[0].Messages[0]
	assert.Equal(t, llm.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "Peer-to-Peer Electronic Cash")
	assert.Contains(t, system.Content, "Proof-of-work")
}

func TestProcessTurnOffTopicSkipsRetrieval(t *testing.T) {
	model := &scriptedLLM{replies: []llm.Reply{
		&llm.TextReply{Text: "Hello! How can I help you?"},
	}}
	retriever := &fakeRetriever{}
	a := New(model, retriever, &fakePrices{}, NewMemoryHistory(), testLogger(), testConfig())

	result, err := a.ProcessTurn(context.Background(), 1, "Hello there")
	require.NoError(t, err)

	assert.False(t, result.UsedRetrieval)
	assert.Equal(t, 0, retriever.calls, "off-topic input must not hit the index")
}

func TestProcessTurnPriceFetchFailure(t *testing.T) {
	model := &scriptedLLM{replies: []llm.Reply{
		&llm.ToolCallReply{CallID: "call-1", Name: "get_crypto_price"},
		&llm.TextReply{Text: "I could not retrieve the current price, please try again later."},
	}}
	prices := &fakePrices{err: errors.New("upstream down")}
	a := New(model, nil, prices, NewMemoryHistory(), testLogger(), testConfig())

	result, err := a.ProcessTurn(context.Background(), 1, "btc price?")
	require.NoError(t, err, "a failed price fetch must not fail the turn")

	assert.True(t, result.UsedTool)
	assert.Equal(t, 2, result.ModelCalls)
	assert.NotEmpty(t, result.Answer)

	// The model is told the price is unavailable instead of being handed an error.
	second := model.requests[1].Messages
	last := second[len(second)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Contains(t, strings.ToLower(last.Content), "unavailable")
}

func TestProcessTurnRetrievalFailureDegrades(t *testing.T) {
	model := &scriptedLLM{replies: []llm.Reply{
		&llm.TextReply{Text: "Bitcoin is a decentralized digital currency."},
	}}
	retriever := &fakeRetriever{err: errors.New("index offline")}
	a := New(model, retriever, &fakePrices{}, NewMemoryHistory(), testLogger(), testConfig())

	result, err := a.ProcessTurn(context.Background(), 1, "Tell me about bitcoin")
	require.NoError(t, err, "a failed retrieval must not fail the turn")

	assert.False(t, result.UsedRetrieval)
	assert.NotEmpty(t, result.Answer)
}

func TestProcessTurnHistoryThreading(t *testing.T) {
	model := &scriptedLLM{replies: []llm.Reply{
		&llm.TextReply{Text: "first answer"},
		&llm.TextReply{Text: "second answer"},
	}}
	history := NewMemoryHistory()
	a := New(model, nil, &fakePrices{}, history, testLogger(), testConfig())

	_, err := a.ProcessTurn(context.Background(), 7, "first question")
	require.NoError(t, err)
	_, err = a.ProcessTurn(context.Background(), 7, "second question")
	require.NoError(t, err)

	// The second request replays the first exchange before the new input.
	second := model.requests[1].Messages
	require.GreaterOrEqual(t, len(second), 4)
	assert.Equal(t, "first question", second[1].Content)
	assert.Equal(t, "first answer", second[2].Content)
	assert.Equal(t, "second question", second[len(second)-1].Content)

	// Both turns are persisted.
	recent, err := history.Recent(context.Background(), 7, 20)
	require.NoError(t, err)
	assert.Len(t, recent, 4)
}

func TestResolveToolUnknownName(t *testing.T) {
	model := &scriptedLLM{replies: []llm.Reply{
		&llm.ToolCallReply{CallID: "call-1", Name: "launch_rocket"},
		&llm.TextReply{Text: "I cannot help with that."},
	}}
	prices := &fakePrices{price: 100}
	a := New(model, nil, prices, NewMemoryHistory(), testLogger(), testConfig())

	_, err := a.ProcessTurn(context.Background(), 1, "do something odd")
	require.NoError(t, err)
	assert.Equal(t, 0, prices.calls, "unknown tools must not trigger a price fetch")
}
