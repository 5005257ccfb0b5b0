package tickets

// TypeID identifies one of the fixed ticket types.
type TypeID string

const (
	TypeEclipse   TypeID = "eclipse"
	TypeEtudiant  TypeID = "etudiant"
	TypeTechnique TypeID = "technique"
	TypeQuestions TypeID = "questions"
	TypePostuler  TypeID = "postuler"
	TypeAutres    TypeID = "autres"
)

// Type is a static catalog entry describing a ticket type. The channel prefix
// is unique across all types; it is used to recover the type from a channel
// name when the registry has no entry.
type Type struct {
	// ID is the identifier of the type.
	ID TypeID

	// Label is the user-facing name of the type.
	Label string

	// Description is the short user-facing description of the type.
	Description string

	// ChannelPrefix is the prefix used for ticket channel names.
	ChannelPrefix string

	// Emoji is the emoji shown next to the label.
	Emoji string

	// AutoTemplateID identifies the guidance template sent automatically.
	AutoTemplateID string
}

// Types is the ordered catalog of ticket types. It is never mutated after
// process start.
var Types = []Type{
	{
		ID:             TypeEclipse,
		Label:          "Activer Eclipse",
		Description:    "Activation ou vérification Eclipse",
		ChannelPrefix:  "eclipse",
		Emoji:          "\U0001F319",
		AutoTemplateID: "eclipse_auto",
	},
	{
		ID:             TypeEtudiant,
		Label:          "Réduction étudiante",
		Description:    "Demande de réduction pour étudiants",
		ChannelPrefix:  "etudiant",
		Emoji:          "\U0001F393",
		AutoTemplateID: "etudiant_auto",
	},
	{
		ID:             TypeTechnique,
		Label:          "Problèmes techniques",
		Description:    "Signaler un bug ou problème technique",
		ChannelPrefix:  "tech",
		Emoji:          "\U0001F527",
		AutoTemplateID: "technique_auto",
	},
	{
		ID:             TypeQuestions,
		Label:          "Questions",
		Description:    "Poser une question générale",
		ChannelPrefix:  "question",
		Emoji:          "❓",
		AutoTemplateID: "questions_auto",
	},
	{
		ID:             TypePostuler,
		Label:          "Postuler",
		Description:    "Candidature pour rejoindre l'équipe",
		ChannelPrefix:  "candidature",
		Emoji:          "\U0001F4DD",
		AutoTemplateID: "postuler_auto",
	},
	{
		ID:             TypeAutres,
		Label:          "Autres",
		Description:    "Autre sujet non listé",
		ChannelPrefix:  "autre",
		Emoji:          "\U0001F4CB",
		AutoTemplateID: "autres_auto",
	},
}

// TypeByID returns the ticket type with the given ID, or nil.
func TypeByID(id TypeID) *Type {
	for i := range Types {
		if Types[i].ID == id {
			return &Types[i]
		}
	}
	return nil
}

// TypeByPrefix returns the ticket type with the given channel prefix, or nil.
func TypeByPrefix(prefix string) *Type {
	for i := range Types {
		if Types[i].ChannelPrefix == prefix {
			return &Types[i]
		}
	}
	return nil
}
