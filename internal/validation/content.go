package validation

import (
	"tessera/internal/models"
)

const (
	postContentMax    = 500
	commentContentMax = 250
	messageContentMax = 200
)

// ValidatePostContent bounds post content to 1-500 characters.
func ValidatePostContent(content string) []models.FieldError {
	if len(content) < 1 || len(content) > postContentMax {
		return []models.FieldError{{
			Field:   "content",
			Message: "Post must be between 1 and 500 characters",
		}}
	}
	return nil
}

// ValidateCommentContent bounds comment content to 1-250 characters.
func ValidateCommentContent(content string) []models.FieldError {
	if len(content) < 1 || len(content) > commentContentMax {
		return []models.FieldError{{
			Field:   "content",
			Message: "Comment must be between 1 and 250 characters",
		}}
	}
	return nil
}

// ValidateMessageContent bounds message content to 1-200 characters.
func ValidateMessageContent(content string) []models.FieldError {
	if len(content) < 1 || len(content) > messageContentMax {
		return []models.FieldError{{
			Field:   "content",
			Message: "Message must be between 1 and 200 characters",
		}}
	}
	return nil
}

// ValidateChatMembers checks the requested member id list: at least
// two members, no duplicates. Runs before any store access.
func ValidateChatMembers(memberIDs []uint) []models.FieldError {
	var errs []models.FieldError

	seen := make(map[uint]struct{}, len(memberIDs))
	unique := true
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			unique = false
			break
		}
		seen[id] = struct{}{}
	}
	if !unique {
		errs = append(errs, models.FieldError{
			Field:   "users",
			Message: "Array values must be unique",
		})
	}
	if len(memberIDs) < 2 {
		errs = append(errs, models.FieldError{
			Field:   "users",
			Message: "Chat must have at least two users",
		})
	}
	return errs
}
