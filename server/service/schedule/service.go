// Package schedule provides group appointment coordination on top of the
// pure appointment, availability and time-resolution packages.
//
// Key features:
//   - Optimistic concurrency: every mutation is a load, a pure update and a
//     save guarded by the document etag
//   - Natural-language time proposals resolved locally, with an optional
//     external fallback
//   - Notification snapshots with ICS attachments for visible changes
//
// The service layer keeps storage and logging out of the domain packages,
// which stay free of side effects.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	aierrors "github.com/hrygo/kinsync/internal/errors"
	"github.com/hrygo/kinsync/internal/observability"
	"github.com/hrygo/kinsync/internal/timezone"
	"github.com/hrygo/kinsync/plugin/ai/aitime"
	"github.com/hrygo/kinsync/server/service/appointment"
	"github.com/hrygo/kinsync/server/service/availability"
	"github.com/hrygo/kinsync/server/service/notify"
	"github.com/hrygo/kinsync/store"
)

// Store is the interface for store operations needed by the schedule service.
type Store interface {
	Load(ctx context.Context, id string) ([]byte, string, error)
	Save(ctx context.Context, id string, state []byte, etag string) (string, error)
	PutBinary(ctx context.Context, key, contentType string, data []byte) error
}

// Config holds the service settings.
type Config struct {
	// BaseURL is the app URL used for deep links.
	BaseURL string
	// DefaultTimezone applies to groups created without one.
	DefaultTimezone string
	Logger          *slog.Logger
	Metrics         *observability.Metrics
}

type service struct {
	store    Store
	resolver *aitime.Resolver
	checker  *appointment.ConstraintChecker
	cfg      Config
	metrics  *observability.Metrics

	now func() time.Time
}

// NewService creates a new schedule service.
func NewService(st Store, resolver *aitime.Resolver, cfg Config) (Service, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if resolver == nil {
		resolver = aitime.NewResolver(aitime.DefaultConfig(), nil)
	}
	checker, err := appointment.NewConstraintChecker()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create constraint checker")
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = DefaultTimezone
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &service{
		store:    st,
		resolver: resolver,
		checker:  checker,
		cfg:      cfg,
		metrics:  metrics,
		now:      time.Now,
	}, nil
}

func (s *service) CreateGroup(ctx context.Context, create *CreateGroupRequest) (state *GroupState, err error) {
	ctx, rc := s.requestContext(ctx, create.GroupID, "")
	defer s.observe(rc, opCreateGroup, &err)

	if strings.TrimSpace(create.GroupID) == "" {
		return nil, aierrors.InvalidArgument("group id is required")
	}
	tz := create.Timezone
	if tz == "" {
		tz = s.cfg.DefaultTimezone
	}
	if !timezone.IsValidTimezone(tz) {
		return nil, aierrors.InvalidArgument(fmt.Sprintf("unknown timezone %q", tz))
	}

	members := []string{}
	for _, m := range create.Members {
		m = strings.TrimSpace(m)
		if m != "" && !slices.Contains(members, m) {
			members = append(members, m)
		}
	}

	state = &GroupState{
		GroupID:      create.GroupID,
		Timezone:     tz,
		Members:      members,
		Appointments: []appointment.Appointment{},
		Rules:        []availability.Rule{},
		History:      []notify.ChangeEntry{},
	}
	if err := s.save(ctx, state, ""); err != nil {
		return nil, err
	}
	rc.Info("group created", slog.Int("members", len(members)))
	return state, nil
}

func (s *service) GetGroup(ctx context.Context, groupID string) (*GroupState, error) {
	state, _, err := s.load(ctx, groupID)
	return state, err
}

func (s *service) CreateAppointment(ctx context.Context, groupID, actor string, create *CreateAppointmentRequest) (res *MutationResult, err error) {
	ctx, rc := s.requestContext(ctx, groupID, actor)
	defer s.observe(rc, opCreateAppointment, &err)

	if strings.TrimSpace(create.Title) == "" {
		return nil, aierrors.InvalidArgument("title is required")
	}

	state, etag, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}

	appt := appointment.EnsureAppointmentDoc(appointment.Appointment{
		ID:       uuid.NewString(),
		Title:    create.Title,
		Desc:     create.Desc,
		Location: appointment.Location{Raw: create.Location},
		Notes:    create.Notes,
		People:   slices.Clone(create.People),
	}, actor)

	var resolve *aitime.ResolveResult
	if create.WhenText != "" {
		r := s.resolve(ctx, rc, state, appt, create.WhenText)
		resolve = &r
		switch {
		case r.OK && r.Time.IsResolved():
			appt = applyResolvedTime(appt, *r.Time)
		case r.OK:
			appt.Time = r.Time
		default:
			// The appointment is still created; the local parse is kept so
			// the missing parts can be filled in later.
			appt.Time = r.Deterministic
		}
	}

	state.Appointments = append(state.Appointments, appt)
	res, err = s.commit(ctx, rc, state, etag, actor, &appointment.Snapshot{}, "", appt)
	if err != nil {
		return nil, err
	}
	res.Resolve = resolve
	return res, nil
}

func (s *service) ProposeTime(ctx context.Context, groupID, appointmentID, actor, whenText string) (*MutationResult, error) {
	if strings.TrimSpace(whenText) == "" {
		return nil, aierrors.InvalidArgument("time text is required")
	}

	var resolve *aitime.ResolveResult
	res, err := s.mutate(ctx, opProposeTime, groupID, appointmentID, actor,
		func(ctx context.Context, rc *observability.RequestContext, state *GroupState, appt appointment.Appointment) (appointment.Appointment, error) {
			r := s.resolve(ctx, rc, state, appt, whenText)
			resolve = &r
			if !r.OK {
				return appt, resolveFailure(r)
			}
			if !r.Time.IsResolved() {
				return appt, aierrors.InvalidArgument(fmt.Sprintf("could not resolve %q", whenText)).
					WithContext("missing", r.Time.Intent.Missing)
			}

			out := applyResolvedTime(appt, *r.Time)
			out = appointment.AddSuggestion(out, appointment.NewSuggestion(appointment.SuggestionInput{
				ProposerEmail: actor,
				Field:         appointment.FieldTime,
				Value:         r.Time.Resolved.StartUtc.UTC().Format(time.RFC3339),
			}))
			return out, nil
		})
	if err != nil {
		return nil, err
	}
	res.Resolve = resolve
	return res, nil
}

func (s *service) Suggest(ctx context.Context, groupID, appointmentID, actor, field string, value any) (*MutationResult, error) {
	if field == "" {
		return nil, aierrors.InvalidArgument("field is required")
	}
	if value == nil {
		return nil, aierrors.InvalidArgument("value is required")
	}
	return s.mutate(ctx, opSuggest, groupID, appointmentID, actor,
		func(_ context.Context, _ *observability.RequestContext, _ *GroupState, appt appointment.Appointment) (appointment.Appointment, error) {
			return appointment.AddSuggestion(appt, appointment.NewSuggestion(appointment.SuggestionInput{
				ProposerEmail: actor,
				Field:         field,
				Value:         value,
			})), nil
		})
}

func (s *service) WithdrawSuggestion(ctx context.Context, groupID, appointmentID, actor, suggestionID string) (*MutationResult, error) {
	if suggestionID == "" {
		return nil, aierrors.InvalidArgument("suggestion id is required")
	}
	return s.mutate(ctx, opWithdraw, groupID, appointmentID, actor,
		func(_ context.Context, _ *observability.RequestContext, _ *GroupState, appt appointment.Appointment) (appointment.Appointment, error) {
			sug, ok := appointment.FindSuggestion(appt, suggestionID)
			if !ok || !sug.Active {
				return appt, aierrors.NotFound(fmt.Sprintf("suggestion %s not found", suggestionID))
			}
			if sug.ProposerEmail != actor {
				return appt, aierrors.InvalidArgument(fmt.Sprintf("suggestion %s belongs to another member", suggestionID))
			}
			out, _ := appointment.DeactivateSuggestion(appt, suggestionID)
			return out, nil
		})
}

func (s *service) SetConstraint(ctx context.Context, groupID, appointmentID, actor string, in appointment.ConstraintInput) (*MutationResult, error) {
	if in.Field == "" {
		return nil, aierrors.InvalidArgument("field is required")
	}
	if !s.checker.Supports(in.Operator) {
		return nil, aierrors.InvalidArgument(fmt.Sprintf("unknown operator %q", in.Operator))
	}
	return s.mutate(ctx, opSetConstraint, groupID, appointmentID, actor,
		func(_ context.Context, _ *observability.RequestContext, _ *GroupState, appt appointment.Appointment) (appointment.Appointment, error) {
			if in.ConstraintID != "" {
				for _, c := range appt.Constraints {
					if c.ID == in.ConstraintID && c.MemberEmail != actor {
						return appt, aierrors.InvalidArgument("constraint belongs to another member")
					}
				}
			}
			out, _ := appointment.UpsertConstraintForMember(appt, actor, in)
			return out, nil
		})
}

func (s *service) RemoveConstraint(ctx context.Context, groupID, appointmentID, actor, constraintID string) (*MutationResult, error) {
	return s.mutate(ctx, opRemoveConstraint, groupID, appointmentID, actor,
		func(_ context.Context, _ *observability.RequestContext, _ *GroupState, appt appointment.Appointment) (appointment.Appointment, error) {
			out, ok := appointment.RemoveConstraintForMember(appt, actor, constraintID)
			if !ok {
				return appt, aierrors.NotFound(fmt.Sprintf("constraint %s not found", constraintID))
			}
			return out, nil
		})
}

func (s *service) ApplyUpdate(ctx context.Context, groupID, appointmentID, actor string, update *UpdateAppointmentRequest) (*MutationResult, error) {
	return s.mutate(ctx, opApplyUpdate, groupID, appointmentID, actor,
		func(_ context.Context, _ *observability.RequestContext, _ *GroupState, appt appointment.Appointment) (appointment.Appointment, error) {
			r := applyUpdate(appt, update)
			return r.Value, r.Err()
		})
}

func (s *service) AddAvailability(ctx context.Context, groupID, personID string, kind availability.RuleKind, whenText string) (res *AvailabilityResult, err error) {
	ctx, rc := s.requestContext(ctx, groupID, personID)
	defer s.observe(rc, opAddAvailability, &err)

	if personID == "" {
		return nil, aierrors.InvalidArgument("person id is required")
	}
	if kind != availability.KindAvailable && kind != availability.KindUnavailable {
		return nil, aierrors.InvalidArgument(fmt.Sprintf("unknown availability kind %q", kind))
	}

	state, etag, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}

	r := s.resolve(ctx, rc, state, appointment.Appointment{}, whenText)
	if !r.OK {
		return nil, resolveFailure(r)
	}
	rule, ok := availability.RuleFromResolved(personID, kind, *r.Time, rc.TraceID)
	if !ok {
		return nil, aierrors.InvalidArgument(fmt.Sprintf("could not resolve %q", whenText)).
			WithContext("missing", r.Time.Intent.Missing)
	}

	state.Rules = availability.NormalizeRulesV2(append(state.Rules, rule))
	if err := s.save(ctx, state, etag); err != nil {
		return nil, err
	}
	rc.Info("availability added",
		slog.String("kind", string(kind)),
		slog.String("code", rule.Code),
		slog.Int("rules", len(state.Rules)))

	return &AvailabilityResult{Rule: rule, Rules: state.Rules, Resolve: &r}, nil
}

func (s *service) CheckAvailability(ctx context.Context, groupID, appointmentID string) (map[string]availability.StatusResult, error) {
	state, _, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	appt, _, err := findAppointment(state, appointmentID)
	if err != nil {
		return nil, err
	}
	start, end, ok := appointmentRange(appt)
	if !ok {
		return nil, aierrors.InvalidArgument("appointment has no time")
	}
	return availability.ComputeGroupStatus(participants(state, appt), start, end, state.Rules), nil
}

func (s *service) RankSuggestions(ctx context.Context, groupID, appointmentID, field string) ([]appointment.RankedSuggestion, error) {
	state, _, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	appt, _, err := findAppointment(state, appointmentID)
	if err != nil {
		return nil, err
	}
	ranked, err := appointment.RankSuggestions(appt, field, s.checker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank suggestions")
	}
	return ranked, nil
}

func (s *service) ChangeFeed(ctx context.Context, groupID string) (string, error) {
	state, _, err := s.load(ctx, groupID)
	if err != nil {
		return "", err
	}
	return notify.ChangeFeed(groupID, s.cfg.BaseURL, state.History)
}

type mutation func(ctx context.Context, rc *observability.RequestContext, state *GroupState, appt appointment.Appointment) (appointment.Appointment, error)

// mutate runs fn against one appointment of a freshly loaded group and
// commits the result under the loaded etag.
func (s *service) mutate(ctx context.Context, op, groupID, appointmentID, actor string, fn mutation) (res *MutationResult, err error) {
	ctx, rc := s.requestContext(ctx, groupID, actor)
	defer s.observe(rc, op, &err)

	state, etag, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	before, idx, err := findAppointment(state, appointmentID)
	if err != nil {
		return nil, err
	}

	next, err := fn(ctx, rc, state, before)
	if err != nil {
		return nil, err
	}
	next = appointment.EnsureAppointmentDoc(next, actor)
	state.Appointments[idx] = next

	prev := appointment.BuildAppointmentSnapshot(before)
	prevStatus := appointment.EvaluateReconciliation(before, actor).Status
	return s.commit(ctx, rc, state, etag, actor, &prev, prevStatus, next)
}

// commit saves state and, when the appointment visibly changed or its
// reconciliation status flipped, emits a notification with an ICS file.
func (s *service) commit(ctx context.Context, rc *observability.RequestContext, state *GroupState, etag, actor string,
	prev *appointment.Snapshot, prevStatus appointment.ReconciliationStatus, next appointment.Appointment) (*MutationResult, error) {

	cur := appointment.BuildAppointmentSnapshot(next)
	changes := appointment.DiffAppointmentSnapshots(prev, &cur)
	rec := appointment.EvaluateReconciliation(next, actor)

	res := &MutationResult{Appointment: next, Reconciliation: rec, Changes: changes}
	if len(changes) > 0 || rec.Status != prevStatus {
		ns := notify.NewNotificationSnapshot(notify.SnapshotInput{
			GroupID:        state.GroupID,
			Appointment:    next,
			Reconciliation: rec,
			ExtraReasons:   conflictReasons(state, next),
			ActorEmail:     actor,
			BaseURL:        s.cfg.BaseURL,
			Now:            s.now(),
		})
		res.Notification = &ns
		if ics, ok := notify.SnapshotToICS(ns); ok {
			res.ICS = &ics
		}

		state.History = append(state.History, notify.ChangeEntry{Snapshot: ns, Changes: changes})
		if len(state.History) > MaxHistory {
			state.History = slices.Clone(state.History[len(state.History)-MaxHistory:])
		}
	}

	if err := s.save(ctx, state, etag); err != nil {
		return nil, err
	}

	if res.ICS != nil {
		key := icsKey(state.GroupID, res.ICS.Filename)
		if err := s.store.PutBinary(ctx, key, icsContentType, []byte(res.ICS.Content)); err != nil {
			// The snapshot is already in the group history and can be
			// rendered again.
			rc.Warn("failed to store calendar attachment", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	if res.Notification != nil {
		s.metrics.RecordNotification()
	}

	rc.Info("appointment updated",
		slog.String(observability.LogFieldAppointmentID, next.ID),
		slog.Int("changes", len(changes)),
		slog.String("reconciliation", string(rec.Status)),
		slog.Bool("notified", res.Notification != nil))
	return res, nil
}

func (s *service) load(ctx context.Context, groupID string) (*GroupState, string, error) {
	raw, etag, err := s.store.Load(ctx, groupDocID(groupID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", aierrors.NotFound(fmt.Sprintf("group %s not found", groupID))
		}
		return nil, "", errors.Wrap(err, "failed to load group")
	}

	// Appointments are decoded one by one so older documents pick up the
	// negotiation structure.
	var doc struct {
		GroupState
		Appointments []json.RawMessage `json:"appointments"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, "", errors.Wrapf(err, "failed to decode group %s", groupID)
	}
	state := doc.GroupState
	state.Appointments = make([]appointment.Appointment, 0, len(doc.Appointments))
	for i, rawAppt := range doc.Appointments {
		appt, err := appointment.DecodeAppointment(rawAppt, "")
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to decode appointment %d of group %s", i, groupID)
		}
		state.Appointments = append(state.Appointments, appt)
	}
	return &state, etag, nil
}

func (s *service) save(ctx context.Context, state *GroupState, etag string) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to encode group")
	}
	if _, err := s.store.Save(ctx, groupDocID(state.GroupID), raw, etag); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.metrics.RecordConflict()
			return aierrors.Conflict(fmt.Sprintf("group %s was modified concurrently", state.GroupID), err)
		}
		return errors.Wrap(err, "failed to save group")
	}
	return nil
}

func (s *service) resolve(ctx context.Context, rc *observability.RequestContext, state *GroupState, appt appointment.Appointment, whenText string) aitime.ResolveResult {
	tz := appt.Timezone
	if tz == "" {
		tz = state.Timezone
	}
	res := s.resolver.ResolveTimeSpecWithFallback(ctx, aitime.ResolveRequest{
		WhenText: whenText,
		Timezone: tz,
		Now:      s.now(),
		TraceID:  rc.TraceID,
		Context:  strings.TrimSpace(appt.Title + "\n" + appt.Desc),
	})
	if !res.OK {
		rc.Warn("time resolution failed",
			slog.String(observability.LogFieldErrorCode, string(res.Error.Code)),
			slog.Bool("fallback_attempted", res.FallbackAttempted))
	}
	return res
}

// requestContext reuses the caller's request context when present.
func (s *service) requestContext(ctx context.Context, groupID, actor string) (context.Context, *observability.RequestContext) {
	if rc, ok := observability.FromContext(ctx); ok {
		return ctx, rc
	}
	rc := observability.NewRequestContext(s.cfg.Logger, groupID, actor)
	return observability.WithRequestContext(ctx, rc), rc
}

func (s *service) observe(rc *observability.RequestContext, op string, errp *error) {
	err := *errp
	s.metrics.RecordRequest(op, time.Duration(rc.DurationMs())*time.Millisecond, err)
	if err != nil {
		rc.Warn(op+" failed",
			slog.String(observability.LogFieldErrorCode, string(aierrors.GetCodeFromError(err, ""))),
			slog.String("error", err.Error()),
			slog.Int64(observability.LogFieldDuration, rc.DurationMs()))
	}
}

func resolveFailure(r aitime.ResolveResult) error {
	return (&aierrors.AIError{Code: r.Error.Code, Message: r.Error.Message}).
		WithContext("fallback_attempted", r.FallbackAttempted)
}

// applyResolvedTime replaces the appointment's time with spec. Direct
// start/end edits are cleared so the resolved interval is authoritative.
func applyResolvedTime(appt appointment.Appointment, spec aitime.TimeSpec) appointment.Appointment {
	r := spec.Resolved
	appt.Time = &spec
	appt.Start, appt.End = "", ""
	appt.Timezone = r.Timezone
	appt.DurationMins = r.DurationMins()

	loc := timezone.LocationOrUTC(r.Timezone)
	appt.Date = timezone.LocalDate(r.StartUtc, loc)
	appt.StartTime = timezone.LocalClock(r.StartUtc, loc)
	return appt
}

// applyUpdate validates and applies a direct edit. Rejected edits are an
// expected outcome and come back as a failed result.
func applyUpdate(appt appointment.Appointment, u *UpdateAppointmentRequest) aierrors.Result[appointment.Appointment] {
	if u == nil {
		return aierrors.Ok(appt)
	}
	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return invalidUpdate("title cannot be empty")
		}
		appt.Title = *u.Title
	}
	if u.Location != nil {
		appt.Location = appointment.Location{Raw: *u.Location}
	}
	if u.Notes != nil {
		appt.Notes = *u.Notes
	}
	if u.Status != nil {
		switch *u.Status {
		case appointment.StatusProposed, appointment.StatusScheduled, appointment.StatusCancelled:
			appt.Status = *u.Status
		default:
			return invalidUpdate(fmt.Sprintf("unknown status %q", *u.Status))
		}
	}

	if u.Start != nil {
		start, err := time.Parse(time.RFC3339, *u.Start)
		if err != nil {
			return invalidUpdate(fmt.Sprintf("invalid start %q", *u.Start))
		}
		appt.Time = nil
		appt.Date, appt.StartTime = "", ""
		appt.Start = start.UTC().Format(time.RFC3339)
		appt.End = ""
	}
	if u.End != nil {
		end, err := time.Parse(time.RFC3339, *u.End)
		if err != nil {
			return invalidUpdate(fmt.Sprintf("invalid end %q", *u.End))
		}
		start, _, ok := appointmentRange(appt)
		if !ok {
			return invalidUpdate("end requires a start")
		}
		if !end.After(start) {
			return invalidUpdate("end must be after start")
		}
		if appt.Time != nil && appt.Time.Resolved != nil {
			resolved := *appt.Time.Resolved
			resolved.EndUtc = end.UTC()
			resolved.DurationSource = aitime.DurationExplicit
			resolved.DurationAcceptance = aitime.AcceptanceUserEdited
			spec := *appt.Time
			spec.Resolved = &resolved
			appt.Time = &spec
		} else {
			appt.End = end.UTC().Format(time.RFC3339)
		}
		appt.DurationMins = int(end.Sub(start) / time.Minute)
	}
	return aierrors.Ok(appt)
}

func invalidUpdate(msg string) aierrors.Result[appointment.Appointment] {
	return aierrors.Fail[appointment.Appointment](aierrors.ErrCodeInvalidArgument, msg)
}

func findAppointment(state *GroupState, appointmentID string) (appointment.Appointment, int, error) {
	idx := slices.IndexFunc(state.Appointments, func(a appointment.Appointment) bool {
		return a.ID == appointmentID
	})
	if idx < 0 {
		return appointment.Appointment{}, -1, aierrors.NotFound(fmt.Sprintf("appointment %s not found", appointmentID))
	}
	return state.Appointments[idx], idx, nil
}

// appointmentRange returns the UTC range the appointment occupies, using the
// same precedence as its snapshot.
func appointmentRange(appt appointment.Appointment) (time.Time, time.Time, bool) {
	snap := appointment.BuildAppointmentSnapshot(appt)
	start, err := time.Parse(time.RFC3339, snap.StartIso)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, snap.EndIso)
	if err != nil {
		end = start.Add(notify.DefaultDurationMins * time.Minute)
	}
	return start, end, true
}

// participants are the appointment's people, or every group member when
// the appointment names nobody.
func participants(state *GroupState, appt appointment.Appointment) []string {
	if len(appt.People) > 0 {
		return appt.People
	}
	return state.Members
}

// conflictReasons lists the availability rules that make participants
// unavailable for the appointment.
func conflictReasons(state *GroupState, appt appointment.Appointment) []string {
	start, end, ok := appointmentRange(appt)
	if !ok {
		return nil
	}
	people := participants(state, appt)
	statuses := availability.ComputeGroupStatus(people, start, end, state.Rules)

	var reasons []string
	for _, p := range people {
		st := statuses[p]
		if st.Status != availability.StatusUnavailable {
			continue
		}
		for _, r := range st.Reasons {
			reasons = append(reasons, p+": "+r)
		}
	}
	return reasons
}

func groupDocID(groupID string) string {
	return groupDocPrefix + groupID
}

func icsKey(groupID, filename string) string {
	return "groups/" + groupID + "/ics/" + filename
}
