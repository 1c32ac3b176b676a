package lexicon

// defaultEntries is the built-in lexicon. Order and contents are fixed;
// integrations depend on both.
var defaultEntries = []Entry{
	{Category: Sad, Phrases: []string{
		"sad", "depressed", "gloomy", "mournful", "blue", "heartbroken", "melancholy", "sorrowful",
		"despondent", "downcast", "forlorn", "woeful", "dismal", "tearful", "somber", "pensive",
		"disheartened", "crestfallen", "bereaved", "wistful", "anguished", "despairing", "grief-stricken",
		"lugubrious", "funereal", "morose", "doleful", "oppressed", "heavy-hearted", "bleak", "defeated",
		"broken", "lamenting", "joyless", "glum", "abject", "dejected", "sunk", "low-spirited",
	}},
	{Category: Happy, Phrases: []string{
		"happy", "joyful", "cheerful", "elated", "excited", "uplifted", "ecstatic", "blissful",
		"jubilant", "content", "delighted", "gleeful", "radiant", "buoyant", "euphoric", "thrilled",
		"overjoyed", "merry", "sunny", "chipper", "exuberant", "jaunty", "sprightly", "vivacious",
		"effervescent", "optimistic", "giddy", "jolly", "gleaming", "spirited", "festive", "sparkling",
		"gratified", "jovial", "peppy", "zestful", "on cloud nine", "walking on air", "in high spirits",
	}},
	{Category: Teasing, Phrases: []string{
		"teasing", "playful", "mischievous", "joking", "jesting", "bantering", "kidding", "ribbing",
		"witty", "facetious", "roguish", "impish", "whimsical", "flirtatious", "tongue-in-cheek",
		"lighthearted", "sly", "cheeky", "roasting", "razzing", "joshing", "needling", "taunting",
	}},
	{Category: Angry, Phrases: []string{
		"angry", "furious", "irate", "enraged", "annoyed", "livid", "incensed", "outraged",
		"wrathful", "infuriated", "exasperated", "aggravated", "irritated", "resentful", "indignant",
		"fuming", "seething", "hostile", "vexed", "cross", "apoplectic", "irked", "riled",
	}},
	{Category: Flustered, Phrases: []string{
		"flustered", "embarrassed", "confused", "stammering", "disconcerted", "rattled", "abashed",
		"sheepish", "self-conscious", "nonplussed", "befuddled", "perturbed", "discomfited", "awkward", "blush",
	}},
	{Category: Nervous, Phrases: []string{
		"nervous", "anxious", "worried", "jittery", "apprehensive", "edgy", "tense", "restless",
		"fidgety", "uneasy", "panicky", "fretful", "jumpy", "overwrought", "neurotic", "stressed",
	}},
	{Category: Corny, Phrases: []string{
		"corny", "cheesy", "sappy", "clichéd", "trite", "tacky", "kitschy", "sentimental", "mawkish",
		"hokey", "overdone", "schmaltzy", "lame", "predictable", "stereotypical", "formulaic",
	}},
	{Category: Bittersweet, Phrases: []string{
		"bittersweet", "nostalgic", "melancholic", "wistful", "poignant", "touching", "tender",
		"reflective", "soulful", "pensive", "yearning", "longing", "reminiscent",
	}},
	{Category: Laugh, Phrases: []string{
		"laugh", "amused", "funny", "hilarious", "comical", "humorous", "witty", "jovial", "jocular",
		"mirthful", "chuckling", "giggling", "snickering", "cackling", "roaring",
	}},
	{Category: Nuanced, Phrases: []string{
		"nuanced", "subtle", "complex", "intricate", "sophisticated", "layered", "multifaceted",
		"detailed", "refined", "delicate", "shaded", "elaborate",
	}},
	{Category: Exhausted, Phrases: []string{
		"exhausted", "tired", "weary", "drained", "fatigued", "spent", "worn out", "burned out",
		"overworked", "dog-tired", "bushed", "knackered", "zonked",
	}},
	{Category: Jealous, Phrases: []string{
		"jealous", "envy", "covetous", "resentful", "green-eyed", "invidious", "grudging",
	}},
	{Category: Grateful, Phrases: []string{
		"grateful", "thankful", "appreciative", "obliged", "indebted", "beholden", "contented",
	}},
	{Category: Focused, Phrases: []string{
		"focused", "diligent", "concentrated", "productive", "attentive", "disciplined", "determined",
	}},
	{Category: Arousal, Phrases: []string{
		"aroused", "flushed", "desire", "wet", "turned on", "seductive", "tempting", "passionate",
		"lustful", "sensual", "erotic", "frisky", "horny", "heated", "stimulated", "provocative",
	}},
}

// Default returns a fresh copy of the built-in lexicon.
func Default() *Lexicon {
	lex := New()
	for _, e := range defaultEntries {
		// Built-in data is valid by construction.
		if err := lex.Add(string(e.Category), e.Phrases); err != nil {
			panic("lexicon: invalid default entry " + string(e.Category) + ": " + err.Error())
		}
	}
	return lex
}

// DefaultCategories returns the built-in category identifiers in order.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultEntries))
	for i, e := range defaultEntries {
		out[i] = e.Category
	}
	return out
}
