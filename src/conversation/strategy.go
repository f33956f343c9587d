package conversation

import (
	"context"
	"strings"

	"chefbot/src/model"
)

// rule is one entry of the ordered dispatch list. handle reports handled=false to fall through.
type rule struct {
	name   string
	match  func(t *turn) bool
	handle func(ctx context.Context, t *turn) (model.Reply, bool, error)
}

func always(*turn) bool { return true }

func contains(keywords ...string) func(t *turn) bool {
	return func(t *turn) bool {
		for _, kw := range keywords {
			if !strings.Contains(t.text, kw) {
				return false
			}
		}
		return true
	}
}

func (d *Dispatcher) buildRules() []rule {
	kw := d.dialogue.Keywords
	return []rule{
		{name: "memo", match: always, handle: d.handleMemo},
		{name: "greeting", match: contains(kw.Greeting), handle: d.handleGreeting},
		{name: "hunger", match: contains(kw.Hungry), handle: d.handleHunger},
		{name: "name_query", match: contains(kw.Name, kw.What), handle: d.handleNameQuery},
		{name: "name_registration", match: contains(kw.Name), handle: d.handleRegistration},
		{name: "category", match: always, handle: d.handleCategory},
		{name: "dish", match: always, handle: d.handleDish},
		{name: "fallback", match: always, handle: d.handleFallback},
	}
}

func (d *Dispatcher) handleMemo(ctx context.Context, t *turn) (model.Reply, bool, error) {
	answer, ok, err := d.deps.Memo.Lookup(ctx, t.userID, t.text)
	if err != nil || !ok {
		return model.Reply{}, false, err
	}
	return model.TextReply(answer), true, nil
}

func (d *Dispatcher) handleGreeting(ctx context.Context, t *turn) (model.Reply, bool, error) {
	name, named, err := d.userName(ctx, t)
	if err != nil {
		return model.Reply{}, false, err
	}
	if !named {
		return model.TextReply(d.dialogue.Messages.WelcomeAnonymous), true, nil
	}
	return d.categoryReply(ctx, render(d.dialogue.Messages.WelcomeNamed, name, "")), true, nil
}

func (d *Dispatcher) handleHunger(ctx context.Context, t *turn) (model.Reply, bool, error) {
	// an unknown name renders as the empty string
	name, _, err := d.userName(ctx, t)
	if err != nil {
		return model.Reply{}, false, err
	}
	return d.categoryReply(ctx, render(d.dialogue.Messages.Hungry, name, "")), true, nil
}

func (d *Dispatcher) handleNameQuery(ctx context.Context, t *turn) (model.Reply, bool, error) {
	name, named, err := d.userName(ctx, t)
	if err != nil {
		return model.Reply{}, false, err
	}
	if !named {
		return model.TextReply(d.dialogue.Messages.NameUnknown), true, nil
	}
	return model.TextReply(render(d.dialogue.Messages.NameKnown, name, "")), true, nil
}

func (d *Dispatcher) handleRegistration(ctx context.Context, t *turn) (model.Reply, bool, error) {
	name, err := d.registeredName(t.text)
	if err != nil {
		d.log.Info().Err(err).Str("user_id", t.userID).Msg("Empty name, falling through")
		return model.Reply{}, false, nil
	}
	if err := d.deps.Memo.SetName(ctx, t.userID, name); err != nil {
		return model.Reply{}, false, err
	}
	t.name, t.named, t.nameLoaded = name, true, true

	return d.categoryReply(ctx, render(d.dialogue.Messages.Registered, name, "")), true, nil
}

func (d *Dispatcher) handleCategory(ctx context.Context, t *turn) (model.Reply, bool, error) {
	categories, err := d.deps.Categories.Categories(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("Category fetch failed")
		return model.TextReply(d.dialogue.Messages.ScrapeFailed), true, nil
	}

	var (
		label string
		found bool
	)
	for _, l := range categories.Labels() {
		// a blank label would match every message
		if strings.TrimSpace(l) == "" || !strings.Contains(t.text, l) {
			continue
		}
		label, found = l, true
		break
	}
	if !found {
		return model.Reply{}, false, nil
	}
	token, _ := categories.Token(label)

	fetchCtx := ctx
	if d.scrapeTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, d.scrapeTimeout)
		defer cancel()
	}
	dishes, err := d.deps.Dishes.FetchDishes(fetchCtx, token)
	if err != nil {
		d.log.Warn().Err(err).Str("category", label).Msg("Dish fetch failed")
		return model.TextReply(d.dialogue.Messages.ScrapeFailed), true, nil
	}

	if err := d.deps.Sessions.SetDishes(ctx, t.userID, dishes); err != nil {
		return model.Reply{}, false, err
	}

	if len(dishes) == 0 {
		return model.TextReply(render(d.dialogue.Messages.NoDishes, "", label)), true, nil
	}

	names := make([]string, len(dishes))
	for i, dish := range dishes {
		names[i] = dish.Name
	}
	return model.Reply{
		Text:    render(d.dialogue.Messages.CategoryDishes, "", label),
		Buttons: model.NewButtons(names),
	}, true, nil
}

func (d *Dispatcher) handleDish(ctx context.Context, t *turn) (model.Reply, bool, error) {
	dishes, err := d.deps.Sessions.Dishes(ctx, t.userID)
	if err != nil {
		return model.Reply{}, false, err
	}
	for _, dish := range dishes {
		if dish.Name == "" || !strings.Contains(t.text, dish.Name) {
			continue
		}
		answer := dish.Format()
		if err := d.deps.Memo.Store(ctx, t.userID, t.text, answer); err != nil {
			return model.Reply{}, false, err
		}
		return model.TextReply(answer), true, nil
	}
	return model.Reply{}, false, nil
}

func (d *Dispatcher) handleFallback(ctx context.Context, t *turn) (model.Reply, bool, error) {
	name, _, err := d.userName(ctx, t)
	if err != nil {
		return model.Reply{}, false, err
	}

	answer, err := d.deps.Answerer.Answer(ctx, t.text, name)
	if err != nil {
		d.log.Warn().Err(err).Str("user_id", t.userID).Msg("LLM answer failed")
		answer = d.dialogue.Messages.LLMFailed
	}

	if err := d.deps.Memo.Store(ctx, t.userID, t.text, answer); err != nil {
		return model.Reply{}, false, err
	}
	return model.TextReply(answer), true, nil
}
