/*
Package handler provides the HTTP handler functions of the avatar control API.

Every handler decodes its input, calls one Scheduler operation, and answers with the standard
envelope. Operations on a single user fail with ErrAvatarNotFound until that user has chatted.
*/
package handler

import (
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"chatavatars/internal/app/avatar"
	"chatavatars/internal/app/presence"
	"chatavatars/internal/pkg/errs"
	"chatavatars/internal/pkg/logx"
	"chatavatars/internal/pkg/req"
	"chatavatars/internal/pkg/resp"
)

// maxUsernameLength bounds usernames accepted from the API, in characters.
const maxUsernameLength = 64

// maxDurationMs bounds every millisecond field so the conversion to time.Duration cannot overflow.
const maxDurationMs = int64(24 * time.Hour / time.Millisecond)

type DirectionInput struct {
	// Direction is one of "left", "right", "up", "down". Anything else faces left.
	Direction string `json:"direction"`
}

type StateInput struct {
	// State is "idle" or "walking".
	State string `json:"state"`
}

type WalkInput struct {
	// DurationMs is the walk length in milliseconds. Omitted walks for the default 5000ms; zero reverts on the next tick.
	DurationMs *int64 `json:"durationMs,omitempty"`
}

// AutoInput overrides the default autonomous behavior options. Omitted fields keep their default.
// Intervals must be at least avatar.MinAutoInterval.
type AutoInput struct {
	MinIntervalMs *int64   `json:"minIntervalMs,omitempty"`
	MaxIntervalMs *int64   `json:"maxIntervalMs,omitempty"`
	WalkChance    *float64 `json:"walkChance,omitempty"`
	MinWalkMs     *int64   `json:"minWalkMs,omitempty"`
	MaxWalkMs     *int64   `json:"maxWalkMs,omitempty"`
}

type MessageInput struct {
	Username string `json:"username"`
}

// Options converts the input to AutoOptions, starting from avatar.DefaultAutoOptions.
func (in AutoInput) Options() (avatar.AutoOptions, *errs.CustomError) {
	opts := avatar.DefaultAutoOptions()

	minIntervalMs := avatar.MinAutoInterval.Milliseconds()
	fields := []struct {
		name  string
		ms    *int64
		floor int64
		dst   *time.Duration
	}{
		{"minIntervalMs", in.MinIntervalMs, minIntervalMs, &opts.MinInterval},
		{"maxIntervalMs", in.MaxIntervalMs, minIntervalMs, &opts.MaxInterval},
		{"minWalkMs", in.MinWalkMs, 0, &opts.MinWalk},
		{"maxWalkMs", in.MaxWalkMs, 0, &opts.MaxWalk},
	}
	for _, f := range fields {
		if f.ms == nil {
			continue
		}
		d, customErr := millis(f.name, *f.ms, f.floor)
		if customErr != nil {
			return opts, customErr
		}
		*f.dst = d
	}

	if in.WalkChance != nil {
		if *in.WalkChance < 0 || *in.WalkChance > 1 {
			return opts, errs.NewError(errs.ErrInvalidParams)
		}
		opts.WalkChance = *in.WalkChance
	}

	return opts, nil
}

// millis converts a millisecond field in [floor, maxDurationMs] to a Duration.
func millis(name string, ms, floor int64) (time.Duration, *errs.CustomError) {
	if ms < floor || ms > maxDurationMs {
		return 0, errs.NewError(errs.ErrInvalidDuration, name)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// usernameParam extracts and validates the {username} path segment.
func usernameParam(r *http.Request) (string, *errs.CustomError) {
	name, err := url.PathUnescape(chi.URLParam(r, "username"))
	if err != nil {
		return "", errs.NewError(errs.ErrInvalidUsername)
	}
	if customErr := validateUsername(name); customErr != nil {
		return "", customErr
	}
	return name, nil
}

func validateUsername(name string) *errs.CustomError {
	if name == "" || utf8.RuneCountInString(name) > maxUsernameLength {
		return errs.NewError(errs.ErrInvalidUsername)
	}
	return nil
}

// respondUserOp answers a single-user operation: ok false means the user has no avatar.
func respondUserOp(w http.ResponseWriter, r *http.Request, username string, ok bool) {
	if !ok {
		resp.RespondError(w, r, errs.NewError(errs.ErrAvatarNotFound, username))
		return
	}
	resp.RespondAck(w, r)
}

// HandleSetUserDirection turns one avatar to face the requested direction.
func HandleSetUserDirection(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, customErr := usernameParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input DirectionInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		ok := deps.Scheduler.SetDirection(username, presence.Direction(input.Direction))
		respondUserOp(w, r, username, ok)
	}
}

// HandleSetAllDirections turns every avatar to face the requested direction.
func HandleSetAllDirections(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input DirectionInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Scheduler.SetAllDirections(presence.Direction(input.Direction))
		resp.RespondAck(w, r)
	}
}

func bindState(w http.ResponseWriter, r *http.Request) (avatar.State, *errs.CustomError) {
	var input StateInput
	if customErr := req.BindJSON(w, r, &input); customErr != nil {
		return "", customErr
	}

	state, ok := avatar.ParseState(input.State)
	if !ok {
		logx.Debug("Rejected avatar state", "state", input.State)
		return "", errs.NewError(errs.ErrInvalidState)
	}
	return state, nil
}

// HandleSetUserState forces one avatar into idle or walking.
func HandleSetUserState(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, customErr := usernameParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		state, customErr := bindState(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		respondUserOp(w, r, username, deps.Scheduler.SetState(username, state))
	}
}

// HandleSetAllStates forces every avatar into idle or walking.
func HandleSetAllStates(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, customErr := bindState(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Scheduler.SetAllStates(state)
		resp.RespondAck(w, r)
	}
}

// HandleStartUserWalking makes one avatar walk for an optional duration.
func HandleStartUserWalking(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, customErr := usernameParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input WalkInput
		if customErr := req.BindOptionalJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		d := avatar.DefaultWalkDuration
		if input.DurationMs != nil {
			if d, customErr = millis("durationMs", *input.DurationMs, 0); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		}

		respondUserOp(w, r, username, deps.Scheduler.StartWalking(username, d))
	}
}

// HandleStopUserWalking returns one avatar to idle.
func HandleStopUserWalking(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, customErr := usernameParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		respondUserOp(w, r, username, deps.Scheduler.StopWalking(username))
	}
}

func bindAuto(w http.ResponseWriter, r *http.Request) (avatar.AutoOptions, *errs.CustomError) {
	var input AutoInput
	if customErr := req.BindOptionalJSON(w, r, &input); customErr != nil {
		return avatar.AutoOptions{}, customErr
	}
	return input.Options()
}

// HandleStartAutoBehavior starts the autonomous behavior loop of one avatar.
func HandleStartAutoBehavior(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, customErr := usernameParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		opts, customErr := bindAuto(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		respondUserOp(w, r, username, deps.Scheduler.StartAuto(username, opts))
	}
}

// HandleStopAutoBehavior stops the autonomous behavior loop of one avatar.
func HandleStopAutoBehavior(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, customErr := usernameParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		respondUserOp(w, r, username, deps.Scheduler.StopAuto(username))
	}
}

// HandleStartAllAuto starts the autonomous behavior loop of every avatar.
func HandleStartAllAuto(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, customErr := bindAuto(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Scheduler.StartAllAuto(opts)
		resp.RespondAck(w, r)
	}
}

// HandleStopAllAuto stops every autonomous behavior loop.
func HandleStopAllAuto(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Scheduler.StopAllAuto()
		resp.RespondAck(w, r)
	}
}

// HandleInjectMessage treats the request as a chat message from username, creating the avatar if needed.
func HandleInjectMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input MessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validateUsername(input.Username); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Scheduler.OnMessage(input.Username)
		resp.RespondAck(w, r)
	}
}

// HandleSnapshot returns the presence state of every avatar.
func HandleSnapshot(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"avatars":  deps.Scheduler.Snapshot(),
			"overlays": deps.Hub.ClientCount(),
		})
	}
}
