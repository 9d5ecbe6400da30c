package service

import (
	"errors"
	"fmt"
	"time"

	"kgc/registry-api/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	membershipIDFormat = "MEM-%06d"

	// Upper bound on ids accepted by a single bulk-reject call. Larger
	// batches abort whole, never partially.
	maxBulkRejectIDs = 10000
)

// MemberNotifier delivers verdict emails to applicants.
type MemberNotifier interface {
	SendApproval(email, name, membershipID string) error
	SendRejection(email, name, registrationID, reason string) error
}

// Workflow owns the pending → {verified | rejected | hold} lifecycle.
//
// Every state transition runs inside one transaction covering membership
// id generation, the migrated row, its audit entries and the pending-row
// delete. Notifications are collected during the transaction and enqueued
// only after commit, so a rollback sends nothing and a delivery failure
// can't undo a commit.
type Workflow struct {
	DB       *gorm.DB
	Queue    *NotifyQueue
	Notifier MemberNotifier
	Now      func() time.Time
}

func NewWorkflow(db *gorm.DB, q *NotifyQueue, n MemberNotifier) *Workflow {
	return &Workflow{DB: db, Queue: q, Notifier: n, Now: time.Now}
}

// nextMembershipID increments the counter row under FOR UPDATE and formats
// the value as a zero-padded membership id.
func nextMembershipID(tx *gorm.DB) (string, error) {
	var seq model.MembershipSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&seq, 1).Error
	if err != nil {
		return "", fmt.Errorf("failed to read membership sequence, %w", err)
	}

	id := fmt.Sprintf(membershipIDFormat, seq.NextValue)

	seq.NextValue++
	if err := tx.Save(&seq).Error; err != nil {
		return "", fmt.Errorf("failed to advance membership sequence, %w", err)
	}

	return id, nil
}

// promote stages the approval of one pending user inside tx: membership
// id, verified copy, audit row, pending delete.
func (w *Workflow) promote(tx *gorm.DB, user *model.PendingUser, adminID string, reason *string) (string, error) {
	membershipID, err := nextMembershipID(tx)
	if err != nil {
		return "", err
	}

	verified := model.VerifiedUser{
		ID:             uuid.NewString(),
		MembershipID:   membershipID,
		RegistrationID: user.RegistrationID,
		Channel:        user.Channel,
		MobileNumber:   user.MobileNumber,
		Email:          user.Email,
		Profile:        user.Profile,
		PDFUrl:         user.PDFUrl,
		ApprovedBy:     adminID,
		ApprovedAt:     w.Now(),
	}

	if err := tx.Create(&verified).Error; err != nil {
		return "", err
	}

	audit := model.AuditLog{
		ID:         uuid.NewString(),
		AdminID:    adminID,
		Action:     model.ActionApprove,
		TargetType: "user",
		TargetID:   user.ID,
		Reason:     reason,
		CreatedAt:  w.Now(),
	}
	if err := tx.Create(&audit).Error; err != nil {
		return "", err
	}

	if err := tx.Delete(&model.PendingUser{}, "id = ?", user.ID).Error; err != nil {
		return "", err
	}

	return membershipID, nil
}

func (w *Workflow) enqueueApproval(user *model.PendingUser, membershipID string) {
	if user.Email == nil {
		return
	}

	email := *user.Email
	name := user.DesiredName
	if name == "" {
		name = user.FullName
	}

	task := &NotifyTask{
		Name: "approval_email",
		Run: func() error {
			return w.Notifier.SendApproval(email, name, membershipID)
		},
	}
	if err := w.Queue.Enqueue(task); err != nil {
		zap.L().Error("Failed to enqueue approval email", zap.Error(err))
	}
}

func (w *Workflow) enqueueRejection(user *model.PendingUser, reason string) {
	if user.Email == nil {
		return
	}

	email := *user.Email
	name := user.DesiredName
	if name == "" {
		name = user.FullName
	}
	registrationID := user.RegistrationID

	task := &NotifyTask{
		Name: "rejection_email",
		Run: func() error {
			return w.Notifier.SendRejection(email, name, registrationID, reason)
		},
	}
	if err := w.Queue.Enqueue(task); err != nil {
		zap.L().Error("Failed to enqueue rejection email", zap.Error(err))
	}
}

// Approve moves a single pending user to the verified table. The record
// must exist and be exactly in the pending state.
func (w *Workflow) Approve(userID, adminID string) (string, error) {
	var user model.PendingUser
	err := w.DB.First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.Status != model.StatusPending {
		return "", ErrNotPending
	}

	var membershipID string
	err = w.DB.Transaction(func(tx *gorm.DB) error {
		membershipID, err = w.promote(tx, &user, adminID, nil)
		return err
	})
	if err != nil {
		return "", err
	}

	w.enqueueApproval(&user, membershipID)

	return membershipID, nil
}

// fetchPendingBatch loads the selected users and enforces the all-pending
// precondition before anything is mutated.
func (w *Workflow) fetchPendingBatch(ids []string) ([]model.PendingUser, error) {
	if len(ids) == 0 {
		return nil, ErrNoUsersSelected
	}

	var users []model.PendingUser
	err := w.DB.
		Where("status = ? AND id IN ?", model.StatusPending, ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	if len(users) != len(ids) {
		return nil, ErrInvalidSelection
	}

	return users, nil
}

// BulkApprove applies the single-approve effects to every id inside one
// transaction. A failure partway rolls back the whole batch.
func (w *Workflow) BulkApprove(ids []string, adminID string, reason *string) (int, error) {
	users, err := w.fetchPendingBatch(ids)
	if err != nil {
		return 0, err
	}

	membershipIDs := make([]string, len(users))

	err = w.DB.Transaction(func(tx *gorm.DB) error {
		for i := range users {
			mid, err := w.promote(tx, &users[i], adminID, reason)
			if err != nil {
				return err
			}
			membershipIDs[i] = mid
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := range users {
		w.enqueueApproval(&users[i], membershipIDs[i])
	}

	return len(users), nil
}

// BulkReject migrates every selected pending user to the rejected table
// with the shared reason, in one transaction. Selections beyond the id
// cap are refused outright. Rejection emails go out after commit, like
// every other notification path.
func (w *Workflow) BulkReject(ids []string, adminID, reason string) (int, error) {
	if reason == "" {
		return 0, ErrReasonRequired
	}

	if len(ids) > maxBulkRejectIDs {
		return 0, ErrInvalidSelection
	}

	users, err := w.fetchPendingBatch(ids)
	if err != nil {
		return 0, err
	}

	err = w.DB.Transaction(func(tx *gorm.DB) error {
		for i := range users {
			user := &users[i]

			rejected := model.RejectedUser{
				ID:                uuid.NewString(),
				OriginalPendingID: user.ID,
				RegistrationID:    user.RegistrationID,
				MobileNumber:      user.MobileNumber,
				Email:             user.Email,
				Profile:           user.Profile,
				RejectReason:      reason,
				RejectedBy:        adminID,
				RejectedAt:        w.Now(),
				CreatedAt:         user.CreatedAt,
			}
			if err := tx.Create(&rejected).Error; err != nil {
				return err
			}

			audit := model.AuditLog{
				ID:         uuid.NewString(),
				AdminID:    adminID,
				Action:     model.ActionReject,
				TargetType: "user",
				TargetID:   user.ID,
				Reason:     &reason,
				CreatedAt:  w.Now(),
			}
			if err := tx.Create(&audit).Error; err != nil {
				return err
			}

			if err := tx.Delete(&model.PendingUser{}, "id = ?", user.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := range users {
		w.enqueueRejection(&users[i], reason)
	}

	return len(users), nil
}

// BulkHold parks every selected pending user in the hold state with the
// shared reason. No row migration, no deletion.
func (w *Workflow) BulkHold(ids []string, adminID, reason string) (int, error) {
	if reason == "" {
		return 0, ErrReasonRequired
	}

	users, err := w.fetchPendingBatch(ids)
	if err != nil {
		return 0, err
	}

	err = w.DB.Transaction(func(tx *gorm.DB) error {
		for i := range users {
			user := &users[i]

			updates := map[string]any{
				"status":      model.StatusHold,
				"hold_reason": reason,
			}
			if err := tx.Model(&model.PendingUser{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
				return err
			}

			audit := model.AuditLog{
				ID:         uuid.NewString(),
				AdminID:    adminID,
				Action:     model.ActionHold,
				TargetType: "user",
				TargetID:   user.ID,
				Reason:     &reason,
				CreatedAt:  w.Now(),
			}
			if err := tx.Create(&audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(users), nil
}
