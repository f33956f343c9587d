package conversation

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"chefbot/src/errs"
	"chefbot/src/logger"
	"chefbot/src/model"

	"github.com/rs/zerolog"
)

// Dispatcher turns one inbound user message into one reply
type Dispatcher struct {
	deps          Deps
	dialogue      Dialogue
	scrapeTimeout time.Duration
	namePattern   *regexp.Regexp
	rules         []rule
	log           zerolog.Logger
}

func NewDispatcher(deps Deps, dialogue Dialogue, scrapeTimeout time.Duration) (*Dispatcher, error) {
	switch {
	case deps.Memo == nil:
		return nil, errors.New("dispatcher requires a memo store")
	case deps.Categories == nil:
		return nil, errors.New("dispatcher requires a category provider")
	case deps.Dishes == nil:
		return nil, errors.New("dispatcher requires a dish source")
	case deps.Sessions == nil:
		return nil, errors.New("dispatcher requires a dish session store")
	case deps.Answerer == nil:
		return nil, errors.New("dispatcher requires an answerer")
	}
	if err := dialogue.validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		deps:          deps,
		dialogue:      dialogue,
		scrapeTimeout: scrapeTimeout,
		namePattern:   regexp.MustCompile(regexp.QuoteMeta(dialogue.Keywords.Name) + `(.*)`),
		log:           logger.With("dispatcher"),
	}
	d.rules = d.buildRules()
	return d, nil
}

// Dialogue returns the texts the dispatcher replies with
func (d *Dispatcher) Dialogue() Dialogue {
	return d.dialogue
}

// Handle evaluates the rules in order; the first rule that handles the message produces the reply.
// Memo failures are returned, all other collaborator failures become apology texts.
func (d *Dispatcher) Handle(ctx context.Context, userID, text string) (model.Reply, error) {
	t := &turn{userID: userID, text: text}
	start := time.Now()

	for _, r := range d.rules {
		if !r.match(t) {
			continue
		}
		reply, handled, err := r.handle(ctx, t)
		if err != nil {
			d.log.Error().Err(err).Str("rule", r.name).Str("user_id", userID).Msg("Dispatch failed")
			return model.Reply{}, err
		}
		if handled {
			d.log.Info().
				Str("rule", r.name).
				Str("user_id", userID).
				Int("buttons", len(reply.Buttons)).
				Dur("elapsed", time.Since(start)).
				Msg("Message dispatched")
			return reply, nil
		}
	}

	// unreachable while the fallback rule is last
	return model.TextReply(d.dialogue.Messages.LLMFailed), nil
}

// turn carries one message through the rules. The user name is read at most once.
type turn struct {
	userID string
	text   string

	nameLoaded bool
	name       string
	named      bool
}

func (d *Dispatcher) userName(ctx context.Context, t *turn) (string, bool, error) {
	if t.nameLoaded {
		return t.name, t.named, nil
	}
	name, ok, err := d.deps.Memo.Name(ctx, t.userID)
	if err != nil {
		return "", false, err
	}
	t.name, t.named, t.nameLoaded = name, ok, true
	return name, ok, nil
}

// categoryReply attaches the category buttons to text
func (d *Dispatcher) categoryReply(ctx context.Context, text string) model.Reply {
	categories, err := d.deps.Categories.Categories(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("Category fetch failed")
		return model.TextReply(d.dialogue.Messages.ScrapeFailed)
	}
	labels := make([]string, 0, categories.Len())
	for _, l := range categories.Labels() {
		if strings.TrimSpace(l) != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return model.TextReply(d.dialogue.Messages.NoCategories)
	}
	return model.Reply{Text: text, Buttons: model.NewButtons(labels)}
}

// registeredName extracts the name following the name keyword, up to the end of the line
func (d *Dispatcher) registeredName(text string) (string, error) {
	m := d.namePattern.FindStringSubmatch(text)
	if m == nil {
		return "", errs.New(errs.ErrInvalidRegistration, "conversation.registeredName")
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", errs.New(errs.ErrInvalidRegistration, "conversation.registeredName")
	}
	return name, nil
}
