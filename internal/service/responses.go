package service

import (
	"fmt"
	"strings"

	"shopassist/internal/model"
	"shopassist/internal/utils"
)

// cannedAnswer pairs trigger phrases with a fixed reply.
type cannedAnswer struct {
	topic    string
	keywords []string
	answer   string
}

// faqAnswers are checked in priority order: the first topic found answers.
var faqAnswers = []cannedAnswer{
	{
		topic:    "delivery",
		keywords: []string{"delivery", "deliver", "delivered", "livraison", "livrer", "livré", "shipping"},
		answer:   "🚚 We deliver within 3 to 7 business days. Delivery is free from 500€, otherwise 49€, and white-glove assembly is available on request.",
	},
	{
		topic:    "warranty",
		keywords: []string{"warranty", "guarantee", "garantie"},
		answer:   "🛡️ All our furniture comes with a 2-year warranty, extended to 5 years on sofa frames and mattresses.",
	},
	{
		topic:    "returns",
		keywords: []string{"return", "retour", "refund", "remboursement", "rembourser"},
		answer:   "↩️ You have 30 days to return an item in its original condition. We pick it up and refund you within 14 days.",
	},
	{
		topic:    "payment",
		keywords: []string{"payment", "pay", "paiement", "payer", "credit card", "carte bancaire", "installments", "plusieurs fois"},
		answer:   "💳 We accept credit cards, PayPal and bank transfer, and you can pay in 3 or 4 installments with no fees from 300€.",
	},
	{
		topic:    "showroom",
		keywords: []string{"showroom", "store", "magasin", "boutique", "opening hours", "horaires", "address", "adresse"},
		answer:   "🏬 Our showroom is open Tuesday to Saturday, 10am to 7pm. Come and try our sofas in person!",
	},
}

const defaultFAQAnswer = "ℹ️ I'd be glad to help with delivery, warranty, returns, payment or our showroom. What would you like to know?"

// chatAnswers are checked in priority order like faqAnswers.
var chatAnswers = []cannedAnswer{
	{
		topic:    "greeting",
		keywords: []string{"hello", "hi", "hey", "bonjour", "salut", "bonsoir"},
		answer:   "👋 Hello! I'm your furniture assistant. Looking for a sofa, a table or some decoration ideas?",
	},
	{
		topic:    "thanks",
		keywords: []string{"thanks", "thank you", "merci"},
		answer:   "😊 You're welcome! Let me know if I can help you find anything else.",
	},
	{
		topic:    "identity",
		keywords: []string{"who are you", "qui es-tu", "qui êtes-vous", "what are you"},
		answer:   "🤖 I'm the store's shopping assistant. I can find furniture for you, analyse a photo of your room and answer questions about delivery or returns.",
	},
	{
		topic:    "wellbeing",
		keywords: []string{"how are you", "ça va", "comment vas-tu", "comment allez-vous"},
		answer:   "I'm doing great, thanks for asking! How can I help with your interior today?",
	},
}

const (
	defaultChatAnswer  = "😊 I'm here to help! Tell me what kind of furniture you're looking for, or ask me about delivery, warranty or our showroom."
	openEndedAnswer    = "I'd love to help you furnish your home! Are you looking for something specific, like a sofa, a table or a bed?"
	noMatchAnswer      = "I couldn't find an exact match for that request. Could you rephrase it or loosen a criterion, like the colour or the budget?"
	genericFoundAnswer = "Here's what I found for you 👇"
)

// answerFor returns the reply of the first topic whose keywords occur in message.
func answerFor(message string, table []cannedAnswer, fallback string) string {
	for _, entry := range table {
		if utils.ContainsAnyTerm(message, entry.keywords) {
			return entry.answer
		}
	}
	return fallback
}

// FAQAnswer returns the canned store-policy answer for message
func FAQAnswer(message string) string {
	return answerFor(message, faqAnswers, defaultFAQAnswer)
}

// ChatAnswer returns the canned small-talk answer for message
func ChatAnswer(message string) string {
	return answerFor(message, chatAnswers, defaultChatAnswer)
}

// ProductSearchAnswer phrases a product_search reply from the extracted attributes
func ProductSearchAnswer(attrs model.AttributeBag) string {
	category, color := deref(attrs.Category), deref(attrs.Color)
	material, style := deref(attrs.Material), deref(attrs.Style)

	switch {
	case category != "" && color != "":
		materialClause := ""
		if material != "" {
			materialClause = " in " + material
		}
		return fmt.Sprintf("Here are our %s %s%s 👇", color, plural(category), materialClause)
	case category != "":
		styleClause := ""
		if style != "" {
			styleClause = " in " + style + " style"
		}
		return fmt.Sprintf("Here is our %s selection%s 👇", category, styleClause)
	case color != "" || material != "":
		descriptor := strings.TrimSpace(color + " " + material)
		return fmt.Sprintf("Here is some %s furniture that might suit you 👇", descriptor)
	default:
		return genericFoundAnswer
	}
}

func plural(word string) string {
	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") {
		return word
	}
	return word + "s"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const photoAnswer = "📸 Based on your photo, here are some pieces that would fit your interior 👇"
