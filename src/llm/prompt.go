package llm

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

func getSystemTemplate() string {
	return `ตอบลูกค้าที่ {name}
Answer as briefly as possible as a male chef.
Reply in the customer's language.`
}

func getAnonymousSystemTemplate() string {
	return `Answer as briefly as possible as a male chef.
Reply in the customer's language.`
}

// user text is a variable value, braces in it are not placeholders
func getUserTemplate() string {
	return `{question}`
}

func createChefTemplate(named bool) prompt.ChatTemplate {
	system := getAnonymousSystemTemplate()
	if named {
		system = getSystemTemplate()
	}

	messages := []schema.MessagesTemplate{
		schema.SystemMessage(system),
		schema.UserMessage(getUserTemplate()),
	}

	return prompt.FromMessages(schema.FString, messages...)
}
