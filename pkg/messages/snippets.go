package messages

import (
	"github.com/Jacobbrewer1/discordgo"
)

// SnippetID identifies a pre-authored staff reply.
type SnippetID string

const (
	SnippetEclipseBase     SnippetID = "eclipse_base"
	SnippetEclipseRelance  SnippetID = "eclipse_relance"
	SnippetTechniqueBase   SnippetID = "technique_base"
	SnippetTechniqueVerif  SnippetID = "technique_verif"
	SnippetGeneralBase     SnippetID = "general_base"
	SnippetGeneralAttente  SnippetID = "general_attente"
	SnippetGeneralCloturer SnippetID = "general_cloturer"
)

// Snippet is a pre-authored reply staff post into tickets. Body is the text
// rendered in the embed; PlainText is the copyable version shown in the
// private preview, where embed markdown would not render.
type Snippet struct {
	ID          SnippetID
	Label       string
	Description string
	Category    string
	Title       string
	Color       int
	Body        string
	PlainText   string
}

// Snippets is the snippet catalog, in display order.
var Snippets = []*Snippet{
	{
		ID:          SnippetEclipseBase,
		Label:       "Eclipse - Réponse initiale",
		Description: "Message de bienvenue et demande de documents pour Eclipse",
		Category:    "eclipse",
		Title:       "\U0001F319 Activation Eclipse",
		Color:       ColorInfo,
		Body: "Bonjour et merci d'avoir ouvert un ticket pour l'activation d'Eclipse !\n\n" +
			"Pour procéder à l'activation, j'ai besoin des éléments suivants :\n\n" +
			"**1.** Une capture d'écran de votre reçu/facture d'achat\n" +
			"**2.** L'email ou identifiant associé à votre compte\n\n" +
			"Une fois ces informations reçues, je procéderai à l'activation dans les plus brefs délais. \U0001F680",
		PlainText: "Bonjour et merci d'avoir ouvert un ticket pour l'activation d'Eclipse !\n\n" +
			"Pour procéder à l'activation, j'ai besoin des éléments suivants :\n\n" +
			"1. Une capture d'écran de votre reçu/facture d'achat\n" +
			"2. L'email ou identifiant associé à votre compte\n\n" +
			"Une fois ces informations reçues, je procéderai à l'activation dans les plus brefs délais. \U0001F680",
	},
	{
		ID:          SnippetEclipseRelance,
		Label:       "Eclipse - Relance",
		Description: "Message de relance si pas de réponse",
		Category:    "eclipse",
		Title:       "⏰ Rappel",
		Color:       ColorWarning,
		Body: "Bonjour !\n\n" +
			"Je me permets de vous relancer concernant votre demande d'activation Eclipse.\n\n" +
			"Nous n'avons pas encore reçu les documents nécessaires :\n" +
			"• Capture d'écran du reçu/facture\n" +
			"• Email ou identifiant du compte\n\n" +
			"Sans réponse de votre part sous **48h**, ce ticket sera automatiquement fermé.\n\n" +
			"N'hésitez pas à nous contacter si vous avez des questions ! \U0001F60A",
		PlainText: "Bonjour !\n\n" +
			"Je me permets de vous relancer concernant votre demande d'activation Eclipse.\n\n" +
			"Nous n'avons pas encore reçu les documents nécessaires :\n" +
			"• Capture d'écran du reçu/facture\n" +
			"• Email ou identifiant du compte\n\n" +
			"Sans réponse de votre part sous 48h, ce ticket sera automatiquement fermé.\n\n" +
			"N'hésitez pas à nous contacter si vous avez des questions ! \U0001F60A",
	},
	{
		ID:          SnippetTechniqueBase,
		Label:       "Technique - Réponse initiale",
		Description: "Message de bienvenue et demande d'informations techniques",
		Category:    "technique",
		Title:       "\U0001F527 Support Technique",
		Color:       ColorInfo,
		Body: "Bonjour et merci d'avoir signalé ce problème !\n\n" +
			"Pour nous aider à diagnostiquer le souci, pourriez-vous nous fournir :\n\n" +
			"**1.** Une description détaillée du problème\n" +
			"**2.** Des captures d'écran de l'erreur\n" +
			"**3.** Votre système d'exploitation (Windows, macOS, etc.)\n" +
			"**4.** Les étapes pour reproduire le bug\n\n" +
			"Plus vous nous donnez d'informations, plus vite nous pourrons vous aider ! \U0001F4AA",
		PlainText: "Bonjour et merci d'avoir signalé ce problème !\n\n" +
			"Pour nous aider à diagnostiquer le souci, pourriez-vous nous fournir :\n\n" +
			"1. Une description détaillée du problème\n" +
			"2. Des captures d'écran de l'erreur\n" +
			"3. Votre système d'exploitation (Windows, macOS, etc.)\n" +
			"4. Les étapes pour reproduire le bug\n\n" +
			"Plus vous nous donnez d'informations, plus vite nous pourrons vous aider ! \U0001F4AA",
	},
	{
		ID:          SnippetTechniqueVerif,
		Label:       "Technique - Vérifications de base",
		Description: "Liste des vérifications de base à effectuer",
		Category:    "technique",
		Title:       "✅ Vérifications de base",
		Color:       ColorInfo,
		Body: "Avant d'aller plus loin, pourriez-vous vérifier les points suivants :\n\n" +
			"**1.** Redémarrer l'application/le navigateur\n" +
			"**2.** Vider le cache et les cookies\n" +
			"**3.** Vérifier votre connexion internet\n" +
			"**4.** Mettre à jour l'application vers la dernière version\n" +
			"**5.** Désactiver temporairement les extensions/antivirus\n\n" +
			"Si le problème persiste après ces vérifications, merci de nous le signaler ! \U0001F50D",
		PlainText: "Avant d'aller plus loin, pourriez-vous vérifier les points suivants :\n\n" +
			"1. Redémarrer l'application/le navigateur\n" +
			"2. Vider le cache et les cookies\n" +
			"3. Vérifier votre connexion internet\n" +
			"4. Mettre à jour l'application vers la dernière version\n" +
			"5. Désactiver temporairement les extensions/antivirus\n\n" +
			"Si le problème persiste après ces vérifications, merci de nous le signaler ! \U0001F50D",
	},
	{
		ID:          SnippetGeneralBase,
		Label:       "Général - Bienvenue",
		Description: "Message de bienvenue général",
		Category:    "general",
		Title:       "\U0001F44B Bienvenue !",
		Color:       ColorPrimary,
		Body: "Bonjour et merci d'avoir ouvert un ticket !\n\n" +
			"Un membre de notre équipe prendra en charge votre demande dans les plus brefs délais.\n\n" +
			"En attendant, n'hésitez pas à nous donner un maximum de détails sur votre demande. \U0001F60A",
		PlainText: "Bonjour et merci d'avoir ouvert un ticket !\n\n" +
			"Un membre de notre équipe prendra en charge votre demande dans les plus brefs délais.\n\n" +
			"En attendant, n'hésitez pas à nous donner un maximum de détails sur votre demande. \U0001F60A",
	},
	{
		ID:          SnippetGeneralAttente,
		Label:       "Général - En attente de réponse",
		Description: "Message d'attente de réponse du membre",
		Category:    "general",
		Title:       "⏳ En attente",
		Color:       ColorInfo,
		Body: "Nous attendons votre réponse pour pouvoir continuer à vous aider.\n\n" +
			"Si vous n'avez plus besoin d'assistance, vous pouvez fermer ce ticket.\n\n" +
			"*Ce ticket sera automatiquement fermé sous 48h sans réponse.*",
		PlainText: "Nous attendons votre réponse pour pouvoir continuer à vous aider.\n\n" +
			"Si vous n'avez plus besoin d'assistance, vous pouvez fermer ce ticket.\n\n" +
			"Ce ticket sera automatiquement fermé sous 48h sans réponse.",
	},
	{
		ID:          SnippetGeneralCloturer,
		Label:       "Général - Clôture du ticket",
		Description: "Message avant fermeture du ticket",
		Category:    "general",
		Title:       "✅ Résolution",
		Color:       ColorSuccess,
		Body: "Votre demande a été traitée avec succès !\n\n" +
			"Si vous avez d'autres questions, n'hésitez pas à ouvrir un nouveau ticket.\n\n" +
			"**Ce ticket va être fermé dans quelques instants.**\n\n" +
			"Merci de nous avoir contactés et bonne continuation ! \U0001F389",
		PlainText: "Votre demande a été traitée avec succès !\n\n" +
			"Si vous avez d'autres questions, n'hésitez pas à ouvrir un nouveau ticket.\n\n" +
			"Ce ticket va être fermé dans quelques instants.\n\n" +
			"Merci de nous avoir contactés et bonne continuation ! \U0001F389",
	},
}

// SnippetByID returns the snippet for an ID, or nil.
func SnippetByID(id SnippetID) *Snippet {
	for _, s := range Snippets {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Message renders the snippet as the message posted into the channel.
func (s *Snippet) Message() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       s.Title,
				Description: s.Body,
				Color:       s.Color,
			},
		},
	}
}

// SnippetPreview is the ephemeral preview of a snippet, with the plain text
// in a code block so staff can copy it.
func SnippetPreview(s *Snippet) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       s.Title,
				Description: "```txt\n" + s.PlainText + "\n```",
				Color:       ColorPrimary,
			},
		},
	}
}
