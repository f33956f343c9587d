package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"chefbot/src/errs"
	"chefbot/src/model"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply    string
	err      error
	block    bool
	received []*schema.Message
}

func (f *fakeGenerator) Generate(ctx context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.received = input
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func TestAnswerAddressesNamedCustomer(t *testing.T) {
	gen := &fakeGenerator{reply: "  ใช้แป้งพิซซ่าสำเร็จรูปได้ครับ \n"}
	chef := NewChefModel(gen, time.Second)

	answer, err := chef.Answer(context.Background(), "อยากกินพิซซ่า", "สมชาย")
	require.NoError(t, err)
	assert.Equal(t, "ใช้แป้งพิซซ่าสำเร็จรูปได้ครับ", answer)

	require.Len(t, gen.received, 2)
	assert.Equal(t, schema.System, gen.received[0].Role)
	assert.Contains(t, gen.received[0].Content, "ตอบลูกค้าที่ สมชาย")
	assert.Equal(t, schema.User, gen.received[1].Role)
	assert.Equal(t, "อยากกินพิซซ่า", gen.received[1].Content)
}

func TestAnswerWithoutName(t *testing.T) {
	gen := &fakeGenerator{reply: "ได้ครับ"}
	chef := NewChefModel(gen, time.Second)

	_, err := chef.Answer(context.Background(), "สูตร {ลับ}", "")
	require.NoError(t, err)
	assert.NotContains(t, gen.received[0].Content, "ตอบลูกค้าที่")
	assert.Equal(t, "สูตร {ลับ}", gen.received[1].Content, "braces in questions are kept verbatim")
}

func TestAnswerErrors(t *testing.T) {
	boom := errors.New("502 bad gateway")
	tests := []struct {
		name string
		gen  *fakeGenerator
		want error
	}{
		{name: "provider error", gen: &fakeGenerator{err: boom}, want: boom},
		{name: "empty answer", gen: &fakeGenerator{reply: "   "}},
		{name: "timeout", gen: &fakeGenerator{block: true}, want: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chef := NewChefModel(tt.gen, 20*time.Millisecond)
			_, err := chef.Answer(context.Background(), "ถาม", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrLLM)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestNewChatModelRejectsUnknownProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), model.LLMConfig{Provider: "ark"})
	assert.Error(t, err)
}

func TestNewChatModelOllama(t *testing.T) {
	cm, err := NewChatModel(context.Background(), model.LLMConfig{
		Provider: "ollama",
		BaseURL:  "http://localhost:11434",
		Model:    "supachai/llama-3-typhoon-v1.5",
		Timeout:  time.Second,
	})
	require.NoError(t, err)
	assert.NotNil(t, cm)
}
