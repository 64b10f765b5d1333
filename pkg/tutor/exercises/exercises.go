// Package exercises holds the built-in practice catalog, grouped by the
// same age bands the persona uses.
package exercises

import (
	"github.com/andre-ai/tutor/pkg/tutor/prompt"
)

// Entry is a vocabulary or phrase item with a rough pronunciation hint
// for Spanish speakers.
type Entry struct {
	French        string `json:"french"`
	Spanish       string `json:"spanish"`
	Pronunciation string `json:"pronunciation"`
}

// Content is the exercise body. Which fields are set depends on the
// exercise type.
type Content struct {
	Words      []Entry  `json:"words,omitempty"`
	Phrases    []Entry  `json:"phrases,omitempty"`
	Practice   string   `json:"practice,omitempty"`
	Starter    string   `json:"starter,omitempty"`
	Vocabulary []string `json:"vocabulary,omitempty"`
	Structures []string `json:"structures,omitempty"`
	Scenario   string   `json:"scenario,omitempty"`
	Scenarios  []string `json:"scenarios,omitempty"`
	Questions  []string `json:"questions,omitempty"`
	Situations []string `json:"situations,omitempty"`
	Topics     []string `json:"topics,omitempty"`
}

// Exercise is one catalog item.
type Exercise struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Content     Content `json:"content"`
}

var catalog = map[prompt.Band][]Exercise{
	prompt.BandChild: {
		{
			ID:          "colors",
			Title:       "Les Couleurs",
			Description: "Aprende los colores en francés",
			Type:        "vocabulary",
			Content: Content{
				Words: []Entry{
					{French: "rouge", Spanish: "rojo", Pronunciation: "ruzh"},
					{French: "bleu", Spanish: "azul", Pronunciation: "blö"},
					{French: "vert", Spanish: "verde", Pronunciation: "vehr"},
					{French: "jaune", Spanish: "amarillo", Pronunciation: "zhon"},
					{French: "noir", Spanish: "negro", Pronunciation: "nwar"},
					{French: "blanc", Spanish: "blanco", Pronunciation: "blan"},
				},
				Practice: "Dis-moi de quelle couleur est le ciel? Et le soleil?",
			},
		},
		{
			ID:          "animals",
			Title:       "Les Animaux",
			Description: "Animales comunes en francés",
			Type:        "vocabulary",
			Content: Content{
				Words: []Entry{
					{French: "le chat", Spanish: "el gato", Pronunciation: "lö sha"},
					{French: "le chien", Spanish: "el perro", Pronunciation: "lö shyan"},
					{French: "l'oiseau", Spanish: "el pájaro", Pronunciation: "lwazo"},
					{French: "le poisson", Spanish: "el pez", Pronunciation: "lö pwason"},
				},
				Practice: "Quel est ton animal préféré?",
			},
		},
		{
			ID:          "greetings",
			Title:       "Les Salutations",
			Description: "Saludos básicos",
			Type:        "conversation",
			Content: Content{
				Phrases: []Entry{
					{French: "Bonjour!", Spanish: "¡Buenos días!", Pronunciation: "bonzhur"},
					{French: "Comment tu t'appelles?", Spanish: "¿Cómo te llamas?", Pronunciation: "koman tü tapel"},
					{French: "J'ai ... ans", Spanish: "Tengo ... años", Pronunciation: "zhay ... an"},
				},
			},
		},
	},
	prompt.BandTeen: {
		{
			ID:          "daily_routine",
			Title:       "Ma Routine Quotidienne",
			Description: "Describe tu día típico",
			Type:        "conversation",
			Content: Content{
				Starter: "Raconte-moi ta journée typique. À quelle heure tu te lèves?",
				Vocabulary: []string{
					"se lever", "prendre le petit-déjeuner", "aller à l'école",
					"étudier", "jouer", "dîner", "se coucher",
				},
				Structures: []string{
					"Je me lève à...",
					"Ensuite, je...",
					"L'après-midi, je...",
					"Le soir, je...",
				},
			},
		},
		{
			ID:          "hobbies",
			Title:       "Mes Loisirs",
			Description: "Habla sobre tus pasatiempos",
			Type:        "conversation",
			Content: Content{
				Starter: "Qu'est-ce que tu aimes faire pendant ton temps libre?",
				Vocabulary: []string{
					"jouer aux jeux vidéo", "écouter de la musique", "faire du sport",
					"lire", "dessiner", "sortir avec des amis",
				},
			},
		},
		{
			ID:          "school",
			Title:       "À l'École",
			Description: "Conversación sobre la escuela",
			Type:        "conversation",
			Content: Content{
				Starter: "Quelle est ta matière préférée à l'école? Pourquoi?",
				Vocabulary: []string{
					"les mathématiques", "l'histoire", "les sciences",
					"l'éducation physique", "les langues", "l'art",
				},
			},
		},
	},
	prompt.BandYoungAdult: {
		{
			ID:          "job_interview",
			Title:       "Entretien d'Embauche",
			Description: "Practica para una entrevista de trabajo",
			Type:        "roleplay",
			Content: Content{
				Scenario: "Vous postulez pour un stage dans une entreprise française",
				Questions: []string{
					"Parlez-moi de vous",
					"Pourquoi voulez-vous travailler chez nous?",
					"Quelles sont vos qualités et vos défauts?",
					"Où vous voyez-vous dans 5 ans?",
				},
			},
		},
		{
			ID:          "travel",
			Title:       "Voyager en France",
			Description: "Situaciones de viaje",
			Type:        "practical",
			Content: Content{
				Situations: []string{
					"Réserver une chambre d'hôtel",
					"Commander au restaurant",
					"Demander des directions",
					"Acheter des billets de train",
				},
			},
		},
		{
			ID:          "social",
			Title:       "Rencontres Sociales",
			Description: "Conversaciones sociales",
			Type:        "conversation",
			Content: Content{
				Starter: "Vous rencontrez quelqu'un à une soirée. Présentez-vous et faites connaissance.",
				Topics: []string{
					"Études ou travail",
					"Loisirs et intérêts",
					"Voyages et expériences",
					"Projets futurs",
				},
			},
		},
	},
	prompt.BandAdult: {
		{
			ID:          "business",
			Title:       "Français des Affaires",
			Description: "Francés para negocios",
			Type:        "professional",
			Content: Content{
				Scenarios: []string{
					"Présenter un projet",
					"Négocier un contrat",
					"Participer à une réunion",
					"Rédiger un email professionnel",
				},
				Vocabulary: []string{
					"le chiffre d'affaires", "la rentabilité", "l'objectif",
					"la stratégie", "le partenariat", "l'investissement",
				},
			},
		},
		{
			ID:          "culture",
			Title:       "Culture et Actualités",
			Description: "Discusión sobre temas actuales",
			Type:        "discussion",
			Content: Content{
				Topics: []string{
					"L'économie française",
					"La politique européenne",
					"Les innovations technologiques",
					"L'environnement et le développement durable",
				},
			},
		},
		{
			ID:          "formal",
			Title:       "Situations Formelles",
			Description: "Contextos formales y administrativos",
			Type:        "practical",
			Content: Content{
				Situations: []string{
					"Ouvrir un compte bancaire",
					"Louer un appartement",
					"Démarches administratives",
					"Rendez-vous médical",
				},
			},
		},
	},
}

// ByAge returns the catalog entries for an age. Ages without a curated
// group get an empty list, never nil.
func ByAge(age int) []Exercise {
	if list, ok := catalog[prompt.BandForAge(age)]; ok {
		return list
	}
	return []Exercise{}
}

// ByID looks up one exercise across all age groups.
func ByID(id string) (Exercise, bool) {
	for _, group := range catalog {
		for _, ex := range group {
			if ex.ID == id {
				return ex, true
			}
		}
	}
	return Exercise{}, false
}
