package service

import "strings"

const defaultFallbackReply = "🚧 I apologize, but I'm currently experiencing technical difficulties with the OpenAI API and cannot provide my usual intelligent responses. This is a basic fallback message. Please try again later when the AI service is restored. Thank you for your patience!"

var fallbackReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"hello", "hi"}, "👋 Hello! I'm currently running in limited mode due to OpenAI API issues. I can provide basic responses, but for full AI capabilities, please try again later when the service is restored."},
	{[]string{"how are you"}, "🤖 I'm experiencing some technical difficulties with the AI service right now, but I'm here to help as best I can with basic responses. Please try again later for enhanced AI functionality."},
	{[]string{"help"}, "🆘 I'm currently running in limited mode due to OpenAI API issues. I can provide basic keyword-based responses, but for full AI capabilities and detailed help, please try again later."},
	{[]string{"what", "how", "why"}, "❓ I'd love to help you with that question, but I'm currently experiencing technical difficulties with the AI service. Please try again later for a more detailed and intelligent response."},
	{[]string{"thank"}, "🙏 You're welcome! I'm sorry I can only provide basic responses right now due to AI service issues. Please try again later for full functionality."},
	{[]string{"bye", "goodbye"}, "👋 Goodbye! I hope the AI service will be fully restored when you return. Thank you for your patience!"},
}

// FallbackReply picks a canned reply for message by case-insensitive
// substring match. The first matching rule wins.
func FallbackReply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range fallbackReplies {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}
	return defaultFallbackReply
}
