package queryparse

// Vocabulary is the fixed term lists entity extraction matches against.
// It is configuration, not logic: deployments can extend the lists without
// touching the extractor.
type Vocabulary struct {
	Colors   []string
	Mediums  []string
	Genres   []string
	Subjects []string
}

// DefaultVocabulary returns the built-in marketplace vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Colors: []string{
			"red", "orange", "yellow", "green", "blue", "purple", "violet",
			"pink", "rose", "black", "white", "grey", "gray", "brown", "gold",
			"silver", "turquoise", "teal", "beige", "crimson",
		},
		Mediums: []string{
			"oil", "acrylic", "watercolor", "gouache", "ink", "charcoal",
			"pastel", "pencil", "collage", "photography", "print", "lithograph",
			"etching", "sculpture", "ceramic", "bronze", "digital", "mixed media",
		},
		Genres: []string{
			"abstract", "figurative", "landscape", "portrait", "still life",
			"impressionist", "expressionist", "minimalist", "surrealist",
			"pop art", "cubist", "realist", "street art", "geometric",
		},
		Subjects: []string{
			"ocean", "sea", "mountain", "forest", "city", "flower", "flowers",
			"rose", "bird", "horse", "dog", "cat", "figure", "nude", "dancer",
			"music", "architecture", "sky", "night", "garden", "river", "desert",
		},
	}
}
