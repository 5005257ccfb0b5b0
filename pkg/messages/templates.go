package messages

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/pkg/tickets"
)

// autoTemplates maps template IDs from the ticket type catalog to their
// builders.
var autoTemplates = map[string]func() *discordgo.MessageSend{
	"eclipse_auto":   eclipseTemplate,
	"etudiant_auto":  etudiantTemplate,
	"technique_auto": techniqueTemplate,
	"questions_auto": questionsTemplate,
	"postuler_auto":  postulerTemplate,
	"autres_auto":    autresTemplate,
}

// AutoTemplate returns the pre-authored guidance message for a ticket type,
// or nil when none is registered.
func (b *Builder) AutoTemplate(t *tickets.Type) *discordgo.MessageSend {
	builder, ok := autoTemplates[t.AutoTemplateID]
	if !ok {
		return nil
	}
	return builder()
}

func templateMessage(title string, sections ...string) *discordgo.MessageSend {
	fields := make([]*discordgo.MessageEmbedField, 0, len(sections)/2)
	for i := 0; i+1 < len(sections); i += 2 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  sections[i],
			Value: sections[i+1],
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:  title,
				Color:  ColorInfo,
				Fields: fields,
				Footer: &discordgo.MessageEmbedFooter{
					Text: "Notre équipe traitera votre demande dès que possible. Merci de ne pas ouvrir plusieurs tickets pour la même demande.",
				},
			},
		},
	}
}

func eclipseTemplate() *discordgo.MessageSend {
	return templateMessage("\U0001F319 Activation Eclipse",
		"1. Capture d'écran de votre reçu/facture",
		"Le reçu doit être lisible et montrer clairement la transaction, avec la date d'achat visible.",
		"2. Identifiant ou email associé",
		"L'email utilisé lors de l'achat, ou votre identifiant de compte.",
	)
}

func etudiantTemplate() *discordgo.MessageSend {
	return templateMessage("\U0001F393 Réduction étudiante",
		"1. Justificatif étudiant",
		"Carte étudiante ou certificat de scolarité de l'année en cours.",
		"2. Email de votre compte",
		"L'email associé au compte qui bénéficiera de la réduction.",
	)
}

func techniqueTemplate() *discordgo.MessageSend {
	return templateMessage("\U0001F527 Problème technique",
		"1. Description du problème",
		"Décrivez ce qui ne fonctionne pas et depuis quand.",
		"2. Étapes pour reproduire",
		"Listez les actions qui mènent au problème.",
		"3. Captures d'écran ou logs",
		"Joignez tout élément permettant de diagnostiquer.",
	)
}

func questionsTemplate() *discordgo.MessageSend {
	return templateMessage("❓ Question",
		"Votre question",
		"Posez votre question avec un maximum de contexte; nous vous répondrons ici.",
	)
}

func postulerTemplate() *discordgo.MessageSend {
	return templateMessage("\U0001F4DD Candidature",
		"1. Présentation",
		"Qui êtes-vous ? Quelle est votre expérience ?",
		"2. Poste visé",
		"Le rôle pour lequel vous candidatez et vos disponibilités.",
		"3. Motivation",
		"Pourquoi souhaitez-vous rejoindre l'équipe ?",
	)
}

func autresTemplate() *discordgo.MessageSend {
	return templateMessage("\U0001F4CB Autre demande",
		"Votre demande",
		"Décrivez votre demande; un membre du staff vous orientera.",
	)
}
