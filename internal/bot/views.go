package bot

import (
	"fmt"

	"campus-notes-bot/internal/gateway"
	"campus-notes-bot/internal/taxonomy"
)

// Message texts and inline keyboards. Kept in one place so the router
// handlers stay about flow, not copy.

const (
	textWelcome = "Welcome! Set up your profile to browse and share course notes."
	textMenu    = "Main menu. What would you like to do?"

	textChooseFaculty = "Choose your faculty:"
	textChooseMajor   = "Choose your major:"
	textChooseCohort  = "Choose your entry year:"
	textProfileSaved  = "Profile saved. You can change it anytime from the menu."

	textSendDocument     = "Send the notes as a PDF document."
	textNotADocument     = "That is not a document. Please send a PDF file."
	textNotAPDF          = "Only PDF files are accepted, so the catalog stays usable. Please send the PDF version."
	textAskTitle         = "What course are these notes for?"
	textAskAttribution   = "Who wrote them? Send \"-\" to skip."
	textSubmissionQueued = "Thanks! Your notes were sent for review."

	textSearchPrompt = "Type part of a course name to search your program's notes."
	textSearchEmpty  = "No notes matched. Try a shorter query."
	textFetchGone    = "That entry is no longer available."

	textChatIntro       = "Anonymous chat pairs you with a random student. Be kind; either side can end the chat at any time."
	textChatQueued      = "Looking for a partner... You will be notified when someone joins."
	textChatMatched     = "Partner found! Messages you send now go to them anonymously. Send /end to leave."
	textChatAlready     = "You are already in the queue or in a chat."
	textChatCanceled    = "Left the queue."
	textChatEnded       = "Chat ended."
	textChatPartnerLeft = "Your partner left the chat."
	textChatOnlyText    = "Only text messages are relayed in anonymous chat."

	textProfileNotSet = "Your profile is not set up yet."

	textBroadcastPrompt = "Send the announcement text. It will reach students in your program after admin review."
	textBroadcastQueued = "Your announcement was sent for review."

	textAdminMenu          = "Admin panel."
	textAdminNoPending     = "Nothing pending."
	textAdminDeletePrompt  = "Send the catalog entry id to delete."
	textAdminDeleteBadID   = "That is not a number. Send the numeric entry id."
	textAdminDeleteMissing = "No entry with that id."
	textAdminDeleted       = "Entry deleted."
	textAdminResolved      = "Already handled by another admin."
	textAdminBroadcast     = "Send the announcement text to broadcast to everyone."

	textApprovedNotice    = "Your notes were approved and added to the catalog. Thank you!"
	textRejectedNotice    = "Your notes were not accepted this time."
	textBroadcastSent     = "Your announcement was approved and delivered."
	textBroadcastRejected = "Your announcement was not approved."

	textNotUnderstood = "I did not get that. Use the menu buttons."
)

const contributorBadge = "🏅"

// chatMatchedText includes the partner's contributor badge when earned.
func chatMatchedText(partnerBadge bool) string {
	if partnerBadge {
		return textChatMatched + "\nYour partner is a " + contributorBadge + " contributor."
	}
	return textChatMatched
}

// inviteText is shown with the bot link so users can share it.
func inviteText(botLink string) string {
	return fmt.Sprintf("Share the bot with your classmates:\n%s", botLink)
}

func profileText(faculty, major, cohort string, approved int, badge bool) string {
	mark := ""
	if badge {
		mark = " " + contributorBadge
	}
	return fmt.Sprintf("Faculty: %s\nMajor: %s\nEntry year: %s\nApproved contributions: %d%s",
		faculty, major, cohort, approved, mark)
}

func startKeyboard() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(gateway.Choice{Label: "Set up profile", Tag: "onboard"}),
	}
}

func mainMenu() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(
			gateway.Choice{Label: "Search notes", Tag: "menu_search"},
			gateway.Choice{Label: "Upload notes", Tag: "menu_upload"},
		),
		gateway.Row(
			gateway.Choice{Label: "Anonymous chat", Tag: "menu_chat"},
			gateway.Choice{Label: "My profile", Tag: "menu_profile"},
		),
		gateway.Row(
			gateway.Choice{Label: "Announce", Tag: "menu_broadcast"},
			gateway.Choice{Label: "Invite friends", Tag: "menu_invite"},
		),
		gateway.Row(gateway.Choice{Label: "Change profile", Tag: "onboard"}),
	}
}

func adminMenu() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(
			gateway.Choice{Label: "Pending", Tag: "admin_pending"},
			gateway.Choice{Label: "Stats", Tag: "admin_stats"},
		),
		gateway.Row(
			gateway.Choice{Label: "Latest users", Tag: "admin_latest"},
			gateway.Choice{Label: "Class list", Tag: "admin_classlist"},
		),
		gateway.Row(
			gateway.Choice{Label: "Delete entry", Tag: "admin_delete"},
			gateway.Choice{Label: "Broadcast", Tag: "admin_broadcast"},
		),
		gateway.Row(gateway.Choice{Label: "User menu", Tag: "go_user_menu"}),
	}
}

func backMenuKeyboard() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(gateway.Choice{Label: "Back to menu", Tag: "back_menu"}),
	}
}

func chatIntroKeyboard() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(gateway.Choice{Label: "Find a partner", Tag: "chat_join"}),
		gateway.Row(gateway.Choice{Label: "Back to menu", Tag: "back_menu"}),
	}
}

func chatWaitingKeyboard() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(gateway.Choice{Label: "Cancel", Tag: "chat_cancel"}),
	}
}

func chatActiveKeyboard() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(gateway.Choice{Label: "End chat", Tag: "chat_end"}),
	}
}

// searchEmptyKeyboard nudges the user to contribute the missing notes.
func searchEmptyKeyboard() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(gateway.Choice{Label: "Upload notes", Tag: "menu_upload"}),
		gateway.Row(gateway.Choice{Label: "Back to menu", Tag: "back_menu"}),
	}
}

// choiceGrid lays options out two per row with the tag prefix prepended.
func choiceGrid(prefix string, options []string) [][]gateway.Choice {
	var rows [][]gateway.Choice
	for i := 0; i < len(options); i += 2 {
		row := gateway.Row(gateway.Choice{Label: options[i], Tag: prefix + options[i]})
		if i+1 < len(options) {
			row = append(row, gateway.Choice{Label: options[i+1], Tag: prefix + options[i+1]})
		}
		rows = append(rows, row)
	}
	return rows
}

func facultyKeyboard(prefix string) [][]gateway.Choice {
	return choiceGrid(prefix, taxonomy.Faculties())
}

func majorKeyboard(prefix string, faculty string, backTag string) [][]gateway.Choice {
	rows := choiceGrid(prefix, taxonomy.Majors(faculty))
	rows = append(rows, gateway.Row(gateway.Choice{Label: "Back", Tag: backTag}))
	return rows
}

func cohortKeyboard(prefix string, backTag string) [][]gateway.Choice {
	rows := choiceGrid(prefix, taxonomy.Cohorts())
	rows = append(rows, gateway.Row(gateway.Choice{Label: "Back", Tag: backTag}))
	return rows
}

// resultKeyboard builds one fetch button per search hit.
func resultKeyboard(titles []string, ids []int64) [][]gateway.Choice {
	var rows [][]gateway.Choice
	for i, title := range titles {
		rows = append(rows, gateway.Row(gateway.Choice{
			Label: title,
			Tag:   fmt.Sprintf("get|%d", ids[i]),
		}))
	}
	rows = append(rows, gateway.Row(gateway.Choice{Label: "Back to menu", Tag: "back_menu"}))
	return rows
}

func reviewKeyboard(id int64) [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(
			gateway.Choice{Label: "Approve", Tag: fmt.Sprintf("appr|%d", id)},
			gateway.Choice{Label: "Reject", Tag: fmt.Sprintf("rej|%d", id)},
		),
	}
}

func broadcastReviewKeyboard(id int64) [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(
			gateway.Choice{Label: "Approve", Tag: fmt.Sprintf("bappr|%d", id)},
			gateway.Choice{Label: "Reject", Tag: fmt.Sprintf("brej|%d", id)},
		),
	}
}

func deleteConfirmKeyboard() [][]gateway.Choice {
	return [][]gateway.Choice{
		gateway.Row(
			gateway.Choice{Label: "Yes, delete", Tag: "del_yes"},
			gateway.Choice{Label: "No", Tag: "del_no"},
		),
	}
}

func pendingCaption(faculty, major, cohort, title string, attribution *string, submitter int64) string {
	author := "-"
	if attribution != nil {
		author = *attribution
	}
	return fmt.Sprintf("New submission\nCourse: %s\nAuthor: %s\nProgram: %s / %s / %s\nFrom: %d",
		title, author, faculty, major, cohort, submitter)
}
