/*
users.go - User directory and role rules

PURPOSE:
  Create, update, and delete the system's users. The directory enforces the
  catalog-level qualification rules (secondary must be compatible with
  primary) and the head-admin protections: the head admin's role is
  immutable and the head admin can never be deleted.

ROLES:
  employee    Works shifts; accepts or declines proposals
  admin       Creates and approves shifts, manages employees, adds manual pay
  head_admin  Full user management; the only role allowed to delete users

SEE ALSO:
  - catalog.go: Secondary-compatibility source of truth
  - lifecycle.go: Consumes user qualifications at shift creation
*/
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Directory manages user records.
type Directory struct {
	store   UserStore
	catalog *Catalog
	logger  zerolog.Logger
	now     func() time.Time
}

// NewDirectory wires a directory over the given user store and catalog.
func NewDirectory(store UserStore, catalog *Catalog, logger zerolog.Logger) *Directory {
	return &Directory{store: store, catalog: catalog, logger: logger, now: time.Now}
}

// CreateUserInput carries the admin-supplied attributes of a new user.
type CreateUserInput struct {
	ActorID        Username
	Username       Username
	Name           string
	Email          string
	Role           Role
	PrimaryShift   ShiftTypeID
	SecondaryShift ShiftTypeID // empty = none
	HourlyRate     decimal.Decimal
}

// UpdateUserInput carries a role-permitted profile edit. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	ActorID        Username
	Username       Username
	Name           *string
	Email          *string
	Role           *Role
	PrimaryShift   *ShiftTypeID
	SecondaryShift *ShiftTypeID // pointer to empty string clears it
	HourlyRate     *decimal.Decimal
}

// Bootstrap creates the initial head admin when the directory is empty.
// Every later mutation requires an acting admin, so an empty store would
// otherwise be unrecoverable.
func (d *Directory) Bootstrap(ctx context.Context, username Username, name, email string) (*User, error) {
	users, err := d.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return nil, fmt.Errorf("%w: directory already bootstrapped", ErrNotPermitted)
	}

	now := d.now()
	u := User{
		Username:  username,
		Name:      name,
		Email:     email,
		Role:      RoleHeadAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.store.PutUser(ctx, u); err != nil {
		return nil, err
	}

	d.logger.Info().Str("username", string(username)).Msg("head admin bootstrapped")
	return &u, nil
}

// CreateUser records a new user. Usernames are unique; the secondary shift
// must belong to the primary's compatibility set or be absent; head admins
// carry no meaningful rate.
func (d *Directory) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	if _, err := d.requireManager(ctx, in.ActorID); err != nil {
		return nil, err
	}

	existing, err := d.store.GetUser(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, in.Username)
	}

	switch in.Role {
	case RoleEmployee, RoleAdmin, RoleHeadAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrNotPermitted, in.Role)
	}

	if err := d.validateQualifications(in.PrimaryShift, in.SecondaryShift); err != nil {
		return nil, err
	}

	now := d.now()
	u := User{
		Username:       in.Username,
		Name:           in.Name,
		Email:          in.Email,
		Role:           in.Role,
		PrimaryShift:   in.PrimaryShift,
		SecondaryShift: in.SecondaryShift,
		HourlyRate:     in.HourlyRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if u.Role == RoleHeadAdmin {
		u.HourlyRate = decimal.Zero
	}

	if err := d.store.PutUser(ctx, u); err != nil {
		return nil, err
	}

	d.logger.Info().
		Str("username", string(u.Username)).
		Str("role", string(u.Role)).
		Str("primary_shift", string(u.PrimaryShift)).
		Msg("user created")

	return &u, nil
}

// UpdateUser applies a partial profile edit. The head admin's role is
// immutable.
func (d *Directory) UpdateUser(ctx context.Context, in UpdateUserInput) (*User, error) {
	if _, err := d.requireManager(ctx, in.ActorID); err != nil {
		return nil, err
	}

	u, err := d.store.GetUser(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", ErrUnknownEntity, in.Username)
	}

	if in.Role != nil && *in.Role != u.Role {
		if u.Role == RoleHeadAdmin || *in.Role == RoleHeadAdmin {
			return nil, fmt.Errorf("%w: role of %s", ErrForbiddenRoleMutation, in.Username)
		}
		u.Role = *in.Role
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}

	primary, secondary := u.PrimaryShift, u.SecondaryShift
	if in.PrimaryShift != nil {
		primary = *in.PrimaryShift
	}
	if in.SecondaryShift != nil {
		secondary = *in.SecondaryShift
	}
	if primary != u.PrimaryShift || secondary != u.SecondaryShift {
		if err := d.validateQualifications(primary, secondary); err != nil {
			return nil, err
		}
		u.PrimaryShift, u.SecondaryShift = primary, secondary
	}

	if in.HourlyRate != nil && u.Role != RoleHeadAdmin {
		u.HourlyRate = *in.HourlyRate
	}

	u.UpdatedAt = d.now()
	if err := d.store.PutUser(ctx, *u); err != nil {
		return nil, err
	}

	d.logger.Info().Str("username", string(u.Username)).Msg("user updated")
	return u, nil
}

// DeleteUser removes a user. Only the head admin may delete, and the head
// admin itself can never be deleted.
func (d *Directory) DeleteUser(ctx context.Context, actorID, username Username) error {
	actor, err := d.store.GetUser(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return fmt.Errorf("%w: user %s", ErrUnknownEntity, actorID)
	}
	if actor.Role != RoleHeadAdmin {
		return fmt.Errorf("%w: %s is %s", ErrNotPermitted, actorID, actor.Role)
	}

	target, err := d.store.GetUser(ctx, username)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: user %s", ErrUnknownEntity, username)
	}
	if target.Role == RoleHeadAdmin {
		return fmt.Errorf("%w: cannot delete %s", ErrForbiddenRoleMutation, username)
	}

	if err := d.store.DeleteUser(ctx, username); err != nil {
		return err
	}

	d.logger.Info().Str("username", string(username)).Str("actor", string(actorID)).Msg("user deleted")
	return nil
}

// GetUser returns a user by username.
func (d *Directory) GetUser(ctx context.Context, username Username) (*User, error) {
	u, err := d.store.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", ErrUnknownEntity, username)
	}
	return u, nil
}

// ListUsers returns every user record.
func (d *Directory) ListUsers(ctx context.Context) ([]*User, error) {
	return d.store.ListUsers(ctx)
}

func (d *Directory) validateQualifications(primary, secondary ShiftTypeID) error {
	if _, err := d.catalog.Definition(primary); err != nil {
		return err
	}
	if secondary == "" {
		return nil
	}
	for _, allowed := range d.catalog.AllowedSecondaries(primary) {
		if allowed == secondary {
			return nil
		}
	}
	return &NoCompatibleShiftTypeError{ShiftType: secondary}
}

func (d *Directory) requireManager(ctx context.Context, id Username) (*User, error) {
	u, err := d.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", ErrUnknownEntity, id)
	}
	if !u.Role.CanManageShifts() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotPermitted, id, u.Role)
	}
	return u, nil
}
