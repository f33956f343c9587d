package conversation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keywords are the substrings that trigger the fixed rules
type Keywords struct {
	Greeting string `yaml:"greeting"`
	Hungry   string `yaml:"hungry"`
	Name     string `yaml:"name"`
	What     string `yaml:"what"`
}

// Messages are the reply texts. {name} and {category} are substituted.
type Messages struct {
	WelcomeNamed     string `yaml:"welcome_named"`
	WelcomeAnonymous string `yaml:"welcome_anonymous"`
	Hungry           string `yaml:"hungry"`
	NameKnown        string `yaml:"name_known"`
	NameUnknown      string `yaml:"name_unknown"`
	Registered       string `yaml:"registered"`
	NoCategories     string `yaml:"no_categories"`
	CategoryDishes   string `yaml:"category_dishes"`
	NoDishes         string `yaml:"no_dishes"`
	ScrapeFailed     string `yaml:"scrape_failed"`
	LLMFailed        string `yaml:"llm_failed"`
	SystemError      string `yaml:"system_error"`
}

// Dialogue is the language pack of the bot
type Dialogue struct {
	Keywords Keywords `yaml:"keywords"`
	Messages Messages `yaml:"messages"`
}

// DefaultDialogue returns the built-in Thai keywords and texts
func DefaultDialogue() Dialogue {
	return Dialogue{
		Keywords: Keywords{
			Greeting: "สวัสดี",
			Hungry:   "หิว",
			Name:     "ชื่อ",
			What:     "อะไร",
		},
		Messages: Messages{
			WelcomeNamed: "สวัสดีครับ, {name}! ผมคือ ChefBot ผู้ช่วยเชฟส่วนตัวของคุณ พร้อมแนะนำเมนูอาหารเด็ด ๆ ให้ทุกมื้อ " +
				"แค่กดที่หมวดหมู่ด้านล่างนี้ที่คุณสนใจ ผมจะช่วยแนะนำเมนูให้คุณทันทีครับ!",
			WelcomeAnonymous: "สวัสดีครับ ผมคือ ChefBot ผู้ช่วยเชฟส่วนตัวของคุณ พร้อมแนะนำเมนูอาหารเด็ด ๆ ให้ทุกมื้อ " +
				"ไม่ว่าจะเป็นเมนูอาหารไทย, ขนมหวาน หรืออาหารนานาชาติ แค่บอกหมวดหมู่ที่ต้องการ " +
				"ผมจะค้นหาเมนูที่เหมาะกับคุณอย่างรวดเร็วและง่ายดาย มาลองปรุงอาหารให้อร่อยได้ทุกวันกับ ChefBot กันเลยครับ! " +
				"ก่อนอื่นเลยอยากให้ผมเรียกคุณว่าอะไรดีครับ!?",
			Hungry:      "คุณ {name} ครับ ทางเรามีหมวดหมู่อาหารหลากหลายให้คุณเลือกตามความต้องการครับ เชิญเลือกได้เลยครับ!",
			NameKnown:   "สวัสดีครับคุณ{name}",
			NameUnknown: "โปรดระบุชื่อของผู้ใช้ เช่น ผมชื่อสมชาย",
			Registered: "ยินดีที่ได้รู้จักครับ, {name}! ผมมีหมวดหมู่อาหารหลากหลายที่น่าสนใจ พร้อมให้คุณเลือกสรรค์ " +
				"แค่เลือกหมวดหมู่ที่คุณสนใจ แล้วมาค้นพบเมนูอร่อย ๆ ไปด้วยกันครับ!",
			NoCategories: "ขออภัยครับ ไม่พบหมวดหมู่เมนูในขณะนี้ครับ",
			CategoryDishes: "นี่คือเมนูอาหารที่น่าสนใจในหมวดหมู่ {category} ที่คุณเลือกครับ! " +
				"ลองดูแล้วบอกผมได้เลยว่าเมนูไหนที่ถูกใจ หรือถ้าต้องการคำแนะนำเพิ่มเติม ผมยินดีช่วยเสมอ!",
			NoDishes:     "ไม่พบเมนูในหมวดหมู่ {category} ที่คุณเลือกครับ",
			ScrapeFailed: "ขออภัยครับ ตอนนี้ไม่สามารถดึงข้อมูลเมนูได้ กรุณาลองใหม่อีกครั้งครับ",
			LLMFailed:    "ขอโทษด้วย ฉันไม่สามารถให้คำตอบนี้ได้",
			SystemError:  "ขออภัยครับ ระบบขัดข้องชั่วคราว กรุณาลองใหม่อีกครั้งครับ",
		},
	}
}

// LoadDialogue reads overrides from a YAML file on top of the defaults. A missing file yields the defaults.
func LoadDialogue(path string) (Dialogue, error) {
	dialogue := DefaultDialogue()
	if path == "" {
		return dialogue, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dialogue, nil
		}
		return Dialogue{}, fmt.Errorf("error reading dialogue file: %w", err)
	}

	var file struct {
		Dialogue *Dialogue `yaml:"dialogue"`
	}
	file.Dialogue = &dialogue
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Dialogue{}, fmt.Errorf("error parsing dialogue YAML: %w", err)
	}

	if err := dialogue.validate(); err != nil {
		return Dialogue{}, err
	}
	return dialogue, nil
}

func (d Dialogue) validate() error {
	for name, kw := range map[string]string{
		"greeting": d.Keywords.Greeting,
		"hungry":   d.Keywords.Hungry,
		"name":     d.Keywords.Name,
		"what":     d.Keywords.What,
	} {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("dialogue keyword %q must not be empty", name)
		}
	}
	return nil
}

func render(template, name, category string) string {
	return strings.NewReplacer("{name}", name, "{category}", category).Replace(template)
}
