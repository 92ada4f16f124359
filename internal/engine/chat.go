package engine

import (
	"context"
	"fmt"
	"time"

	"contracts-app/internal/domain/chat"

	"gorm.io/gorm"
)

// PostMessage appends to the contract chat. Either party, any status.
func (e *Engine) PostMessage(ctx context.Context, contractID string, caller Caller, text string) (*chat.Message, error) {
	var out *chat.Message
	err := e.write(ctx, "PostMessage", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, false)
		if err != nil {
			return err
		}
		m, err := chat.New(c.ID, caller.Role, text, now)
		if err != nil {
			return err
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("post message: %w", err)
		}
		out = m
		return nil
	})
	return out, err
}
