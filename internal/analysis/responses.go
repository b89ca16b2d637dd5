package analysis

import "github.com/AnshRaj112/mindjourney-backend/internal/models"

type moodResponse struct {
	response    string
	affirmation string
}

var responses = map[models.Mood]moodResponse{
	models.MoodHappy: {
		response:    "It's wonderful to see you feeling so positive! Your joy and gratitude really shine through in your writing. These moments of happiness are precious - they're building blocks for resilience and well-being.",
		affirmation: "I embrace joy and let positive moments fill my heart with gratitude.",
	},
	models.MoodSad: {
		response:    "I can sense you're going through a difficult time right now. It's completely okay to feel sad - these emotions are valid and part of the human experience. Remember that this feeling is temporary, and you have the strength to work through it.",
		affirmation: "I allow myself to feel deeply, knowing that sadness will pass and I will find light again.",
	},
	models.MoodAnxious: {
		response:    "I can feel the worry and uncertainty in your words. Anxiety can be overwhelming, but remember that you've handled difficult situations before. Take some deep breaths and focus on what you can control right now.",
		affirmation: "I breathe deeply and focus on the present moment. I have the strength to handle whatever comes my way.",
	},
	models.MoodAngry: {
		response:    "I can sense your frustration and anger. These are powerful emotions that show you care deeply about something. It's important to acknowledge these feelings while finding healthy ways to process and channel them.",
		affirmation: "I acknowledge my anger and use its energy to create positive change in my life.",
	},
	models.MoodTired: {
		response:    "It sounds like you're feeling drained and exhausted. This is your body and mind telling you that rest is needed. Be gentle with yourself and remember that taking time to recharge is not selfish - it's necessary.",
		affirmation: "I honor my need for rest and give myself permission to recharge and restore my energy.",
	},
	models.MoodNeutral: {
		response:    "You seem to be in a balanced, reflective state today. Sometimes these neutral moments are just as valuable as the highs and lows - they give us space to process and simply be present with ourselves.",
		affirmation: "I find peace in stillness and appreciate the calm moments in my journey.",
	},
}

func responseFor(m models.Mood) moodResponse {
	if r, ok := responses[m]; ok {
		return r
	}
	return responses[models.MoodNeutral]
}
