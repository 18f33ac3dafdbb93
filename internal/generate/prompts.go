package generate

import "fmt"

const suggestionTemplate = `You are a book recommendation expert. Based on the user's current reading list, provide 3-5 personalized reading suggestions. For each suggestion, provide the book title, author, and a short, compelling reason why the user would enjoy it based on their existing list.

Reading List: %s`

const coverTemplate = `Generate a visually stunning, artistic, and abstract book cover for a book titled "%s". The cover should evoke the mood and themes from the following synopsis: %s. Do not include any text or words on the cover. The style should be minimalist and modern.`

func suggestionPrompt(readingList string) string {
	return fmt.Sprintf(suggestionTemplate, readingList)
}

func coverPrompt(title, synopsis string) string {
	return fmt.Sprintf(coverTemplate, title, synopsis)
}
