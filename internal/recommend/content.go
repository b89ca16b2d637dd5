package recommend

import "github.com/AnshRaj112/mindjourney-backend/internal/models"

type item = models.ContentItem
type quote = models.Quote

var movies = map[models.Mood][]item{
	models.MoodHappy: {
		{Title: "The Pursuit of Happyness", Description: "An inspiring story about resilience and never giving up on dreams", Genre: "Drama/Biography"},
		{Title: "Inside Out", Description: "A beautiful exploration of emotions and the importance of joy", Genre: "Animation/Family"},
		{Title: "The Grand Budapest Hotel", Description: "Whimsical and visually stunning comedy-drama", Genre: "Comedy/Drama"},
		{Title: "Paddington", Description: "Heartwarming family film about kindness and belonging", Genre: "Family/Comedy"},
	},
	models.MoodSad: {
		{Title: "Inside Out", Description: "Helps understand and process complex emotions", Genre: "Animation/Family"},
		{Title: "The Pursuit of Happyness", Description: "A reminder that difficult times can lead to better days", Genre: "Drama/Biography"},
		{Title: "A Monster Calls", Description: "Beautiful story about grief and healing", Genre: "Drama/Fantasy"},
		{Title: "Good Will Hunting", Description: "About overcoming trauma and finding hope", Genre: "Drama"},
	},
	models.MoodAnxious: {
		{Title: "My Neighbor Totoro", Description: "Peaceful and calming animation that soothes anxiety", Genre: "Animation/Family"},
		{Title: "A Silent Voice", Description: "Beautiful story about overcoming anxiety and finding connection", Genre: "Animation/Drama"},
		{Title: "The Secret Garden", Description: "Gentle story about healing and growth", Genre: "Family/Drama"},
		{Title: "Spirited Away", Description: "Magical journey that promotes courage and self-discovery", Genre: "Animation/Adventure"},
	},
	models.MoodAngry: {
		{Title: "Anger Management", Description: "A comedy that helps put anger in perspective", Genre: "Comedy"},
		{Title: "The Karate Kid", Description: "About channeling emotions into discipline and growth", Genre: "Drama/Sport"},
		{Title: "Peaceful Warrior", Description: "Philosophical journey about finding inner peace", Genre: "Drama/Sport"},
		{Title: "Dead Poets Society", Description: "Inspiring story about passion and self-expression", Genre: "Drama"},
	},
	models.MoodTired: {
		{Title: "Kiki's Delivery Service", Description: "Gentle story about finding balance and overcoming burnout", Genre: "Animation/Family"},
		{Title: "The Secret Garden", Description: "Peaceful and restorative story about healing", Genre: "Family/Drama"},
		{Title: "My Neighbor Totoro", Description: "Soothing and comforting animated film", Genre: "Animation/Family"},
		{Title: "Little Women", Description: "Warm family story about love and support", Genre: "Drama/Romance"},
	},
	models.MoodNeutral: {
		{Title: "Lost in Translation", Description: "Contemplative film about finding meaning in quiet moments", Genre: "Drama/Romance"},
		{Title: "Her", Description: "Thoughtful exploration of human connection and self-reflection", Genre: "Drama/Romance"},
		{Title: "The Before Trilogy", Description: "Deep conversations about life and relationships", Genre: "Drama/Romance"},
		{Title: "Midnight in Paris", Description: "Whimsical exploration of art, life, and nostalgia", Genre: "Comedy/Fantasy"},
	},
}

var music = map[models.Mood][]item{
	models.MoodHappy: {
		{Title: "Good as Hell by Lizzo", Description: "Empowering and energetic anthem for self-love", Genre: "Pop/R&B"},
		{Title: "Happy by Pharrell Williams", Description: "Pure joy in musical form", Genre: "Pop/Funk"},
		{Title: "Can't Stop the Feeling by Justin Timberlake", Description: "Upbeat and infectious positivity", Genre: "Pop/Dance"},
		{Title: "Walking on Sunshine by Katrina and the Waves", Description: "Classic feel-good anthem", Genre: "Pop/Rock"},
	},
	models.MoodSad: {
		{Title: "Breathe Me by Sia", Description: "A gentle song about vulnerability and healing", Genre: "Pop/Alternative"},
		{Title: "The Night We Met by Lord Huron", Description: "Melancholic but beautiful, helps process sadness", Genre: "Indie Folk"},
		{Title: "Mad World by Gary Jules", Description: "Contemplative cover that validates deep emotions", Genre: "Alternative/Indie"},
		{Title: "Hurt by Johnny Cash", Description: "Powerful reflection on pain and redemption", Genre: "Country/Alternative"},
	},
	models.MoodAnxious: {
		{Title: "Weightless by Marconi Union", Description: "Scientifically proven to reduce anxiety by 65%", Genre: "Ambient/Electronic"},
		{Title: "Clair de Lune by Debussy", Description: "Classical piece known for its calming effects", Genre: "Classical"},
		{Title: "Aqueous Transmission by Incubus", Description: "Long, meditative instrumental piece", Genre: "Alternative Rock"},
		{Title: "River by Joni Mitchell", Description: "Gentle and soothing folk ballad", Genre: "Folk/Singer-Songwriter"},
	},
	models.MoodAngry: {
		{Title: "Stronger by Kelly Clarkson", Description: "Empowering song about overcoming challenges", Genre: "Pop/Rock"},
		{Title: "Fight Song by Rachel Platten", Description: "Channeling anger into determination", Genre: "Pop/Rock"},
		{Title: "Roar by Katy Perry", Description: "Anthem about finding your voice and strength", Genre: "Pop"},
		{Title: "Titanium by David Guetta ft. Sia", Description: "About resilience and inner strength", Genre: "Electronic/Pop"},
	},
	models.MoodTired: {
		{Title: "Sleep Baby Sleep by Broods", Description: "Soothing song perfect for winding down", Genre: "Indie Pop"},
		{Title: "Holocene by Bon Iver", Description: "Peaceful and introspective", Genre: "Indie Folk"},
		{Title: "Spa Music Playlist", Description: "Relaxing ambient sounds for rest and restoration", Genre: "Ambient/New Age"},
		{Title: "Gymnopédie No. 1 by Erik Satie", Description: "Minimalist classical piece for relaxation", Genre: "Classical"},
	},
	models.MoodNeutral: {
		{Title: "Mad World by Gary Jules", Description: "Contemplative and introspective", Genre: "Alternative/Indie"},
		{Title: "The Scientist by Coldplay", Description: "Reflective and emotionally balanced", Genre: "Alternative Rock"},
		{Title: "Skinny Love by Bon Iver", Description: "Gentle and contemplative", Genre: "Indie Folk"},
		{Title: "Black by Pearl Jam", Description: "Deep and reflective rock ballad", Genre: "Grunge/Alternative"},
	},
}

var quotes = map[models.Mood][]quote{
	models.MoodHappy: {
		{Text: "Happiness is not something ready made. It comes from your own actions.", Author: "Dalai Lama"},
		{Text: "The most wasted of days is one without laughter.", Author: "E.E. Cummings"},
		{Text: "Joy is not in things; it is in us.", Author: "Richard Wagner"},
		{Text: "Happiness is when what you think, what you say, and what you do are in harmony.", Author: "Mahatma Gandhi"},
	},
	models.MoodSad: {
		{Text: "The wound is the place where the Light enters you.", Author: "Rumi"},
		{Text: "You are braver than you believe, stronger than you seem, and smarter than you think.", Author: "A.A. Milne"},
		{Text: "The darkest nights produce the brightest stars.", Author: "John Green"},
		{Text: "Every storm runs out of rain.", Author: "Maya Angelou"},
	},
	models.MoodAnxious: {
		{Text: "You don't have to control your thoughts. You just have to stop letting them control you.", Author: "Dan Millman"},
		{Text: "Anxiety is the dizziness of freedom.", Author: "Søren Kierkegaard"},
		{Text: "Nothing in life is to be feared, it is only to be understood.", Author: "Marie Curie"},
		{Text: "You have been assigned this mountain to show others it can be moved.", Author: "Mel Robbins"},
	},
	models.MoodAngry: {
		{Text: "Holding on to anger is like grasping a hot coal with the intent of throwing it at someone else; you are the one who gets burned.", Author: "Buddha"},
		{Text: "For every minute you remain angry, you give up sixty seconds of peace of mind.", Author: "Ralph Waldo Emerson"},
		{Text: "Anger is an acid that can do more harm to the vessel in which it is stored than to anything on which it is poured.", Author: "Mark Twain"},
		{Text: "The best fighter is never angry.", Author: "Lao Tzu"},
	},
	models.MoodTired: {
		{Text: "Rest when you're weary. Refresh and renew yourself, your body, your mind, your spirit.", Author: "Ralph Marston"},
		{Text: "Take time to make your soul happy.", Author: "Unknown"},
		{Text: "Sometimes the most productive thing you can do is relax.", Author: "Mark Black"},
		{Text: "Your body is precious. It is our vehicle for awakening. Treat it with care.", Author: "Buddha"},
	},
	models.MoodNeutral: {
		{Text: "In the midst of winter, I found there was, within me, an invincible summer.", Author: "Albert Camus"},
		{Text: "The quieter you become, the more you are able to hear.", Author: "Rumi"},
		{Text: "Life is what happens to you while you're busy making other plans.", Author: "John Lennon"},
		{Text: "The present moment is the only time over which we have dominion.", Author: "Thích Nhất Hạnh"},
	},
}

var dailyQuotes = []quote{
	{Text: "The only way to make sense out of change is to plunge into it, move with it, and join the dance.", Author: "Alan Watts"},
	{Text: "What lies behind us and what lies before us are tiny matters compared to what lies within us.", Author: "Ralph Waldo Emerson"},
	{Text: "The journey of a thousand miles begins with one step.", Author: "Lao Tzu"},
	{Text: "Yesterday is history, tomorrow is a mystery, today is a gift of God, which is why we call it the present.", Author: "Bill Keane"},
	{Text: "Be yourself; everyone else is already taken.", Author: "Oscar Wilde"},
	{Text: "In the middle of difficulty lies opportunity.", Author: "Albert Einstein"},
	{Text: "The only impossible journey is the one you never begin.", Author: "Tony Robbins"},
	{Text: "Life is 10% what happens to you and 90% how you react to it.", Author: "Charles R. Swindoll"},
	{Text: "The way to get started is to quit talking and begin doing.", Author: "Walt Disney"},
	{Text: "Don't let yesterday take up too much of today.", Author: "Will Rogers"},
}

// Story is a short success story rotated weekly.
type Story struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Theme   string `json:"theme"`
}

var stories = []Story{
	{
		Title:   "Overcoming Anxiety Through Journaling",
		Content: "Sarah, a 28-year-old marketing professional, struggled with anxiety for years. After starting her journaling journey with MindJourney, she began to identify her anxiety triggers and develop coping strategies. Within three months, she reported feeling more in control of her emotions and better equipped to handle stressful situations at work.",
		Theme:   "anxiety",
	},
	{
		Title:   "Finding Balance in a Busy Life",
		Content: "Mark, a father of two and business owner, felt overwhelmed by his responsibilities. Through daily reflection and mood tracking, he discovered patterns in his stress levels and learned to prioritize self-care. His consistent journaling practice helped him become more present with his family and more effective in his work.",
		Theme:   "work-stress",
	},
	{
		Title:   "Building Self-Confidence",
		Content: "Emma, a college student, used journaling to work through feelings of self-doubt and imposter syndrome. By documenting her achievements and reflecting on her growth, she gradually built a stronger sense of self-worth. Her journal became a source of encouragement during challenging times.",
		Theme:   "self-confidence",
	},
	{
		Title:   "Navigating Life Transitions",
		Content: "David used MindJourney during a major career change. The daily writing practice helped him process his fears about leaving his corporate job to pursue his passion for teaching. Looking back at his entries, he could see how his confidence grew over time, and the journal served as a record of his brave journey.",
		Theme:   "life-transitions",
	},
	{
		Title:   "Healing from Loss",
		Content: "After losing her mother, Maria found it difficult to express her grief. Journaling provided a safe space to explore her emotions without judgment. Over time, her entries evolved from expressions of pain to memories of gratitude and love, helping her find a path toward healing.",
		Theme:   "grief",
	},
	{
		Title:   "Managing Depression",
		Content: "Alex struggled with depression and found it hard to see progress in his mental health journey. Through consistent mood tracking and journaling, he began to notice small improvements and patterns. His journal became evidence of his resilience and a tool for communicating with his therapist.",
		Theme:   "depression",
	},
}

// Template is a guided journaling prompt.
type Template struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// Templates lists the guided journaling templates in display order.
var Templates = []Template{
	{Key: "daily", Title: "Daily Reflection", Prompt: "How was your day? What went well? What was challenging? What are you grateful for today?"},
	{Key: "anxiety", Title: "Anxiety Processing", Prompt: "What am I worried about right now? What aspects can I control? What steps can I take to address my concerns?"},
	{Key: "gratitude", Title: "Gratitude Practice", Prompt: "What are three things I'm grateful for today? How did these things make me feel? Why are they meaningful to me?"},
	{Key: "work", Title: "Work Stress", Prompt: "What work challenges did I face today? How did I handle them? What could I do differently next time? What support do I need?"},
	{Key: "goals", Title: "Goal Setting", Prompt: "What do I want to achieve? What specific steps can I take? What obstacles might I face? How will I overcome them?"},
}

// LookupTemplate finds a template by key.
func LookupTemplate(key string) (Template, bool) {
	for _, t := range Templates {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}
