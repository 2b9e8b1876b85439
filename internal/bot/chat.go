package bot

import (
	"context"
	"strings"
)

// Anonymous chat flow. The matchmaker owns all pairing state; handlers here
// only translate outcomes into messages and keep the durable audit trail.

func (r *Router) chatIntro(ctx context.Context, userID int64) error {
	p, err := r.requireProfile(ctx, userID)
	if err != nil || p == nil {
		return err
	}

	if err := r.profiles.MarkChatUsed(ctx, userID); err != nil {
		r.logger.Error(ctx, "chat-used mark failed", "user", userID, "error", err.Error())
	}

	if _, paired := r.match.PartnerOf(userID); paired {
		return r.gw.SendText(ctx, userID, textChatAlready, chatActiveKeyboard()...)
	}
	return r.gw.SendText(ctx, userID, textChatIntro, chatIntroKeyboard()...)
}

func (r *Router) joinChat(ctx context.Context, userID int64) error {
	p, err := r.requireProfile(ctx, userID)
	if err != nil || p == nil {
		return err
	}

	outcome, partner, err := r.match.Join(ctx, userID)
	if err != nil {
		return err
	}

	switch outcome {
	case JoinWaiting:
		return r.gw.SendText(ctx, userID, textChatQueued, chatWaitingKeyboard()...)

	case JoinAlreadyWaiting, JoinAlreadyPaired:
		return r.gw.SendText(ctx, userID, textChatAlready)

	case JoinPaired:
		// each side sees the other's contributor badge, never their identity
		partnerProfile, perr := r.profiles.Get(ctx, partner)
		if perr != nil {
			r.logger.Error(ctx, "partner profile read failed", "user", partner, "error", perr.Error())
		}
		partnerBadge := partnerProfile != nil && partnerProfile.ApprovedUploads >= 1
		selfBadge := p.ApprovedUploads >= 1

		if err := r.gw.SendText(ctx, partner, chatMatchedText(selfBadge), chatActiveKeyboard()...); err != nil {
			r.logger.Error(ctx, "match notice failed", "user", partner, "error", err.Error())
		}
		return r.gw.SendText(ctx, userID, chatMatchedText(partnerBadge), chatActiveKeyboard()...)
	}

	return nil
}

func (r *Router) cancelChat(ctx context.Context, userID int64) error {
	if r.match.Cancel(userID) {
		return r.gw.SendText(ctx, userID, textChatCanceled, mainMenu()...)
	}
	return r.sendMenu(ctx, userID)
}

// endChat handles both the /end command and the chat_end button. Ending
// while merely waiting degrades to a queue cancel.
func (r *Router) endChat(ctx context.Context, userID int64) error {
	partner, wasPaired, err := r.match.Leave(ctx, userID)
	if err != nil {
		r.logger.Error(ctx, "session close failed", "user", userID, "error", err.Error())
	}
	if !wasPaired {
		return r.cancelChat(ctx, userID)
	}
	r.states.Clear(userID)

	if err := r.gw.SendText(ctx, partner, textChatPartnerLeft, mainMenu()...); err != nil {
		r.logger.Error(ctx, "leave notice failed", "user", partner, "error", err.Error())
	}
	return r.gw.SendText(ctx, userID, textChatEnded, mainMenu()...)
}

// relay forwards one text message to the partner without any identity
// attached, and records it on the session.
func (r *Router) relay(ctx context.Context, ev Event, partner int64) error {
	text := strings.TrimSpace(ev.Text)
	if ev.Document != nil || text == "" {
		return r.gw.SendText(ctx, ev.UserID, textChatOnlyText)
	}

	if sessionID, ok := r.match.SessionOf(ev.UserID); ok {
		if err := r.chats.AppendMessage(ctx, sessionID, ev.UserID, text); err != nil {
			r.logger.Error(ctx, "chat log append failed", "session", sessionID, "error", err.Error())
		}
	}

	return r.gw.SendText(ctx, partner, text)
}
