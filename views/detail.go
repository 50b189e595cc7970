package views

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"eventhub/metrics"
	"eventhub/models"
	"eventhub/realtime"
	"eventhub/services"
	"eventhub/session"

	"github.com/google/uuid"
)

// DetailStore is what the workshop detail view reads and writes.
type DetailStore interface {
	GetWorkshop(ctx context.Context, id uuid.UUID) (*models.Workshop, error)
	MembershipForWorkshop(ctx context.Context, userID, workshopID uuid.UUID) (*models.Group, error)
	GetGroupMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error)
	ListTasks(ctx context.Context, workshopID uuid.UUID) ([]models.Task, error)
	GroupSubmissions(ctx context.Context, groupID uuid.UUID) ([]models.Submission, error)
	GetLeaderboard(ctx context.Context, workshopID uuid.UUID) ([]models.LeaderboardEntry, error)
	ListJudges(ctx context.Context, workshopID uuid.UUID) ([]models.Judge, error)

	JoinGroup(ctx context.Context, userID, workshopID uuid.UUID, code string) (*models.Group, error)
	CreateSubmission(ctx context.Context, groupID, taskID uuid.UUID, text string, fileURLs []string) (*models.Submission, error)
	SubmitFeedback(ctx context.Context, f *models.Feedback) error
	RequestMentorship(ctx context.Context, m *models.MentorshipRequest) error
}

type DetailState string

const (
	StateNoGroup      DetailState = "no_group"
	StateInGroup      DetailState = "in_group"
	StateAllCompleted DetailState = "all_completed"
)

const (
	msgLoadFailed     = "Failed to load workshop data"
	msgEnterCode      = "Please enter a group code"
	msgInvalidCode    = "Invalid group code"
	msgAlreadyInGroup = "You're already in this group"
	msgHaveGroup      = "You're already in a group for this workshop"
	msgJoined         = "Successfully joined the group!"
	msgJoinFailed     = "Failed to join group"
	msgNeedSubmission = "Please provide a submission"
	msgTaskNotFound   = "Task not found"
	msgTaskLocked     = "Task is locked"
	msgUnderReview    = "Your submission is under review by judges"
	msgTaskCompleted  = "Task already completed"
	msgSubmitted      = "Task submitted successfully!"
	msgSubmitFailed   = "Failed to submit task"
	msgNoGroup        = "Join a group first"
	msgRating         = "Rating must be between 1 and 5"
	msgFeedbackDone   = "Feedback submitted! Thank you"
	msgFeedbackFailed = "Failed to submit feedback"
	msgFillAll        = "Please fill all fields"
	msgMentorDone     = "Mentorship request submitted! We'll reach out soon"
	msgMentorFailed   = "Failed to submit request"
	msgNotAvailable   = "Complete every task first"
)

// DetailView is one mounted workshop page for one session. It may be driven
// from several goroutines (a websocket reader and the change listener).
type DetailView struct {
	store      DetailStore
	sess       *session.Session
	workshopID uuid.UUID
	logger     *slog.Logger

	// lifetime is cancelled on Unmount; every store call derives from it
	lifetime  context.Context
	cancel    context.CancelFunc
	unmounted atomic.Bool

	mu                  sync.Mutex
	loading             bool
	loaded              bool
	workshop            *models.Workshop
	group               *models.Group
	members             []models.GroupMember
	tasks               []models.Task
	submissions         []models.Submission
	leaderboard         []models.LeaderboardEntry
	judges              []models.Judge
	selectedTaskID      *uuid.UUID
	draft               string
	feedbackDismissed   bool
	mentorshipDismissed bool
	notices             noticeBoard

	sub *realtime.Subscription
}

func NewDetailView(store DetailStore, sess *session.Session, workshopID uuid.UUID, logger *slog.Logger) *DetailView {
	if logger == nil {
		logger = slog.Default()
	}
	lifetime, cancel := context.WithCancel(context.Background())
	return &DetailView{
		store:      store,
		sess:       sess,
		workshopID: workshopID,
		logger:     logger.With("workshop_id", workshopID),
		lifetime:   lifetime,
		cancel:     cancel,
	}
}

// ChannelName is the change feed channel of a workshop page.
func ChannelName(workshopID uuid.UUID) string {
	return "workshop-" + workshopID.String()
}

// opContext ends when either ctx or the view's lifetime ends.
func (v *DetailView) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(v.lifetime, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// live reports whether fetched results may still be applied.
func (v *DetailView) live() bool {
	return !v.unmounted.Load()
}

// ================== LOADING ==================

// Mount loads the workshop, the user's group in it and everything that
// depends on the group, then the leaderboard and the judges. On failure the
// previous state is kept.
func (v *DetailView) Mount(ctx context.Context) {
	if !v.live() {
		return
	}
	ctx, done := v.opContext(ctx)
	defer done()

	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.loading = false
		v.loaded = true
		v.mu.Unlock()
	}()

	if err := v.load(ctx); err != nil {
		if !v.live() {
			return
		}
		v.logger.Error("Error fetching workshop data", "error", err)
		v.notices.error(msgLoadFailed)
	}
}

func (v *DetailView) load(ctx context.Context) error {
	workshop, err := v.store.GetWorkshop(ctx, v.workshopID)
	if errors.Is(err, services.ErrNotFound) {
		v.apply(func() { v.workshop = nil })
		return nil
	}
	if err != nil {
		return err
	}

	var (
		group       *models.Group
		members     []models.GroupMember
		tasks       []models.Task
		submissions []models.Submission
	)
	if v.sess != nil {
		group, err = v.store.MembershipForWorkshop(ctx, v.sess.UserID, v.workshopID)
		if errors.Is(err, services.ErrNotFound) {
			group, err = nil, nil
		}
		if err != nil {
			return err
		}
	}
	if group != nil {
		if members, err = v.store.GetGroupMembers(ctx, group.ID); err != nil {
			return err
		}
		if tasks, err = v.store.ListTasks(ctx, v.workshopID); err != nil {
			return err
		}
		if submissions, err = v.store.GroupSubmissions(ctx, group.ID); err != nil {
			return err
		}
	}

	leaderboard, err := v.store.GetLeaderboard(ctx, v.workshopID)
	if err != nil {
		return err
	}
	judges, err := v.store.ListJudges(ctx, v.workshopID)
	if err != nil {
		return err
	}

	v.apply(func() {
		v.workshop = workshop
		v.group = group
		v.members = members
		v.setTasks(tasks)
		v.submissions = submissions
		v.leaderboard = leaderboard
		v.judges = judges
	})
	return nil
}

// apply runs fn under the lock unless the view has been unmounted.
func (v *DetailView) apply(fn func()) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.live() {
		return false
	}
	fn()
	return true
}

// setTasks replaces the task list and focuses the first active task.
// Caller holds mu.
func (v *DetailView) setTasks(tasks []models.Task) {
	v.tasks = tasks
	for i := range tasks {
		if tasks[i].IsActive {
			id := tasks[i].ID
			v.selectedTaskID = &id
			return
		}
	}
}

func (v *DetailView) currentGroup() *models.Group {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.group
}

func (v *DetailView) fetchTasks(ctx context.Context) {
	tasks, err := v.store.ListTasks(ctx, v.workshopID)
	if err != nil {
		v.logger.Warn("Error fetching tasks", "error", err)
		return
	}
	v.apply(func() { v.setTasks(tasks) })
}

func (v *DetailView) fetchSubmissions(ctx context.Context, groupID uuid.UUID) {
	subs, err := v.store.GroupSubmissions(ctx, groupID)
	if err != nil {
		v.logger.Warn("Error fetching submissions", "group_id", groupID, "error", err)
		return
	}
	v.apply(func() { v.submissions = subs })
}

func (v *DetailView) fetchMembers(ctx context.Context, groupID uuid.UUID) {
	members, err := v.store.GetGroupMembers(ctx, groupID)
	if err != nil {
		v.logger.Warn("Error fetching group members", "group_id", groupID, "error", err)
		return
	}
	v.apply(func() { v.members = members })
}

func (v *DetailView) fetchLeaderboard(ctx context.Context) {
	entries, err := v.store.GetLeaderboard(ctx, v.workshopID)
	if err != nil {
		v.logger.Warn("Error fetching leaderboard", "error", err)
		return
	}
	v.apply(func() { v.leaderboard = entries })
}

// ================== ACTIONS ==================

// JoinGroup joins the group holding code in this workshop.
func (v *DetailView) JoinGroup(ctx context.Context, code string) {
	if !v.live() || v.sess == nil {
		return
	}
	form := JoinForm{Code: code}
	form.normalize()
	if err := validate.Struct(form); err != nil {
		v.notices.error(msgEnterCode)
		return
	}
	// Only the no-group state offers the join form
	if v.currentGroup() != nil {
		v.notices.info(msgHaveGroup)
		return
	}

	ctx, done := v.opContext(ctx)
	defer done()

	group, err := v.store.JoinGroup(ctx, v.sess.UserID, v.workshopID, form.Code)
	switch {
	case errors.Is(err, services.ErrNotFound):
		v.notices.error(msgInvalidCode)
		return
	case errors.Is(err, services.ErrAlreadyMember):
		v.notices.info(msgAlreadyInGroup)
		return
	case errors.Is(err, services.ErrAlreadyInGroup):
		v.notices.info(msgHaveGroup)
		return
	case err != nil:
		v.logger.Error("Error joining group", "error", err)
		v.notices.error(msgJoinFailed)
		return
	}

	metrics.GroupJoins.Inc()
	if !v.apply(func() { v.group = group }) {
		return
	}
	v.notices.success(msgJoined)

	v.fetchMembers(ctx, group.ID)
	v.fetchTasks(ctx)
	v.fetchSubmissions(ctx, group.ID)
}

// SetDraft records the submission text being typed for a task.
func (v *DetailView) SetDraft(taskID uuid.UUID, text string) {
	v.mu.Lock()
	v.selectedTaskID = &taskID
	v.draft = text
	v.mu.Unlock()
}

// SubmitTask inserts a pending submission for an active task that has not
// been submitted yet.
func (v *DetailView) SubmitTask(ctx context.Context, taskID uuid.UUID, text string, fileURLs []string) {
	if !v.live() {
		return
	}
	group := v.currentGroup()
	if group == nil {
		v.notices.error(msgNoGroup)
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return
	}

	v.SetDraft(taskID, text)

	form := SubmissionForm{Text: strings.TrimSpace(text), FileURLs: fileURLs}
	if err := validate.Struct(form); err != nil {
		v.notices.error(msgNeedSubmission)
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return
	}

	v.mu.Lock()
	task, found := v.findTask(taskID)
	status := deriveStatus(taskID, v.submissions)
	v.mu.Unlock()

	var msg string
	switch {
	case !found:
		msg = msgTaskNotFound
	case !task.IsActive:
		msg = msgTaskLocked
	case status == models.StatusPending:
		msg = msgUnderReview
	case status == models.StatusCompleted:
		msg = msgTaskCompleted
	}
	if msg != "" {
		v.notices.error(msg)
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return
	}

	ctx, done := v.opContext(ctx)
	defer done()

	if _, err := v.store.CreateSubmission(ctx, group.ID, taskID, text, fileURLs); err != nil {
		v.logger.Error("Error submitting task", "task_id", taskID, "error", err)
		v.notices.error(msgSubmitFailed)
		metrics.Submissions.WithLabelValues("failed").Inc()
		return
	}

	metrics.Submissions.WithLabelValues("accepted").Inc()
	if !v.apply(func() { v.draft = "" }) {
		return
	}
	v.notices.success(msgSubmitted)
	v.fetchSubmissions(ctx, group.ID)
}

// SubmitFeedback appends a rating once every task is completed.
func (v *DetailView) SubmitFeedback(ctx context.Context, form FeedbackForm) {
	if !v.live() || v.sess == nil {
		return
	}
	if !v.FeedbackAvailable() {
		v.notices.error(msgNotAvailable)
		return
	}
	if err := validate.Struct(form); err != nil {
		v.notices.error(msgRating)
		return
	}

	ctx, done := v.opContext(ctx)
	defer done()

	err := v.store.SubmitFeedback(ctx, &models.Feedback{
		UserID:      v.sess.UserID,
		WorkshopID:  v.workshopID,
		Rating:      form.Rating,
		Content:     form.Content,
		Suggestions: form.Suggestions,
	})
	if err != nil {
		v.logger.Error("Error submitting feedback", "error", err)
		v.notices.error(msgFeedbackFailed)
		return
	}

	if v.apply(func() { v.feedbackDismissed = true }) {
		v.notices.success(msgFeedbackDone)
	}
}

// SubmitMentorship appends a mentorship request once every task is completed.
func (v *DetailView) SubmitMentorship(ctx context.Context, form MentorshipForm) {
	if !v.live() || v.sess == nil {
		return
	}
	if !v.MentorshipAvailable() {
		v.notices.error(msgNotAvailable)
		return
	}
	form.normalize()
	if err := validate.Struct(form); err != nil {
		v.notices.error(msgFillAll)
		return
	}

	ctx, done := v.opContext(ctx)
	defer done()

	err := v.store.RequestMentorship(ctx, &models.MentorshipRequest{
		UserID:          v.sess.UserID,
		WorkshopID:      v.workshopID,
		IdeaTitle:       form.Title,
		IdeaDescription: form.Description,
	})
	if err != nil {
		v.logger.Error("Error submitting mentorship request", "error", err)
		v.notices.error(msgMentorFailed)
		return
	}

	if v.apply(func() { v.mentorshipDismissed = true }) {
		v.notices.success(msgMentorDone)
	}
}

// ================== REAL-TIME ==================

// Subscribe opens the workshop channel on hub. A view holds at most one
// subscription; calling Subscribe again returns the existing one.
func (v *DetailView) Subscribe(hub *realtime.Hub) *realtime.Subscription {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sub != nil || !v.live() {
		return v.sub
	}

	id := v.workshopID.String()
	v.sub = hub.Subscribe(ChannelName(v.workshopID),
		realtime.On("workshop_tasks").Where("workshop_id", id),
		realtime.On("workshop_leaderboard").Where("workshop_id", id),
		realtime.On("team_task_submissions"),
	)
	return v.sub
}

// HandleChange re-runs the fetch matching the changed table.
func (v *DetailView) HandleChange(ctx context.Context, c realtime.Change) {
	if !v.live() {
		return
	}
	ctx, done := v.opContext(ctx)
	defer done()

	switch c.Table {
	case "workshop_tasks":
		v.fetchTasks(ctx)
	case "workshop_leaderboard":
		v.fetchLeaderboard(ctx)
	case "team_task_submissions":
		if group := v.currentGroup(); group != nil {
			v.fetchSubmissions(ctx, group.ID)
		}
	}
}

// Listen applies changes from the view's subscription until ctx ends or the
// view is unmounted. onUpdate, if set, runs after each batch.
func (v *DetailView) Listen(ctx context.Context, onUpdate func()) {
	v.mu.Lock()
	sub := v.sub
	v.mu.Unlock()
	if sub == nil {
		return
	}

	ctx, done := v.opContext(ctx)
	defer done()

	for {
		changes, err := sub.Next(ctx)
		if err != nil {
			return
		}
		for _, c := range changes {
			v.HandleChange(ctx, c)
		}
		if onUpdate != nil && v.live() {
			onUpdate()
		}
	}
}

// Unmount closes the subscription and cancels in-flight fetches. Results that
// arrive afterwards are dropped. Safe to call more than once.
func (v *DetailView) Unmount() {
	if v.unmounted.Swap(true) {
		return
	}
	v.cancel()

	v.mu.Lock()
	sub := v.sub
	v.mu.Unlock()
	if sub != nil {
		sub.Close()
	}
}

// ================== DERIVED STATE ==================

// deriveStatus is the status of the latest submission for a task, or
// not_started when there is none.
func deriveStatus(taskID uuid.UUID, subs []models.Submission) string {
	latest := latestSubmission(taskID, subs)
	if latest == nil {
		return models.StatusNotStarted
	}
	return latest.Status
}

func latestSubmission(taskID uuid.UUID, subs []models.Submission) *models.Submission {
	var latest *models.Submission
	for i := range subs {
		s := &subs[i]
		if s.TaskID != taskID {
			continue
		}
		if latest == nil || s.SubmittedAt.After(latest.SubmittedAt) {
			latest = s
		}
	}
	return latest
}

// Caller holds mu.
func (v *DetailView) findTask(id uuid.UUID) (models.Task, bool) {
	for _, t := range v.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Caller holds mu.
func (v *DetailView) allCompleted() bool {
	if len(v.tasks) == 0 {
		return false
	}
	for _, t := range v.tasks {
		if deriveStatus(t.ID, v.submissions) != models.StatusCompleted {
			return false
		}
	}
	return true
}

// Caller holds mu.
func (v *DetailView) state() DetailState {
	switch {
	case v.group == nil:
		return StateNoGroup
	case v.allCompleted():
		return StateAllCompleted
	default:
		return StateInGroup
	}
}

func (v *DetailView) State() DetailState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state()
}

func (v *DetailView) FeedbackAvailable() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.group != nil && v.allCompleted() && !v.feedbackDismissed
}

func (v *DetailView) MentorshipAvailable() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.group != nil && v.allCompleted() && !v.mentorshipDismissed
}

// ================== SNAPSHOT ==================

type TaskCard struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	TaskOrder     int        `json:"task_order"`
	Points        int        `json:"points"`
	TimerMinutes  *int       `json:"timer_minutes"`
	StartTime     *time.Time `json:"start_time"`
	IsActive      bool       `json:"is_active"`
	Locked        bool       `json:"locked"`
	Status        string     `json:"status"`
	AcceptsInput  bool       `json:"accepts_input"`
	ReviewMessage string     `json:"review_message,omitempty"`
	Score         *int       `json:"score"`
	Selected      bool       `json:"selected"`
}

type LeaderboardRow struct {
	ID             uuid.UUID `json:"id"`
	Rank           *int      `json:"rank"`
	GroupName      string    `json:"group_name"`
	LogoURL        *string   `json:"logo_url"`
	TotalScore     int       `json:"total_score"`
	TasksCompleted int       `json:"tasks_completed"`
	Highlight      bool      `json:"highlight"`
	Badge          string    `json:"badge,omitempty"`
}

type PersonCard struct {
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
}

type GroupCard struct {
	ID        uuid.UUID `json:"id"`
	GroupName string    `json:"group_name"`
	GroupCode string    `json:"group_code"`
	LogoURL   *string   `json:"logo_url"`
	Slogan    *string   `json:"slogan"`
}

type DetailSnapshot struct {
	Loading             bool             `json:"loading"`
	NotFound            bool             `json:"not_found"`
	Workshop            *models.Workshop `json:"workshop"`
	State               DetailState      `json:"state"`
	Group               *GroupCard       `json:"group"`
	Members             []PersonCard     `json:"members"`
	Tasks               []TaskCard       `json:"tasks"`
	Progress            int              `json:"progress"`
	Draft               string           `json:"draft"`
	Leaderboard         []LeaderboardRow `json:"leaderboard"`
	Judges              []PersonCard     `json:"judges"`
	FeedbackAvailable   bool             `json:"feedback_available"`
	MentorshipAvailable bool             `json:"mentorship_available"`
	Notices             []Notice         `json:"notices"`
}

func rankBadge(rank *int) string {
	if rank == nil {
		return ""
	}
	switch *rank {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	}
	return ""
}

func personCard(userID uuid.UUID, u *models.User) PersonCard {
	card := PersonCard{UserID: userID}
	if u != nil {
		p := u.Profile()
		card.FullName = p.FullName
		card.AvatarURL = p.AvatarURL
	}
	return card
}

// Snapshot renders the view and drains pending notices.
func (v *DetailView) Snapshot() DetailSnapshot {
	v.mu.Lock()
	snap := DetailSnapshot{
		Loading:     v.loading,
		NotFound:    v.loaded && v.workshop == nil,
		Workshop:    v.workshop,
		State:       v.state(),
		Draft:       v.draft,
		Members:     []PersonCard{},
		Tasks:       []TaskCard{},
		Leaderboard: []LeaderboardRow{},
		Judges:      []PersonCard{},
	}

	groupName := ""
	if v.group != nil {
		groupName = v.group.GroupName
		snap.Group = &GroupCard{
			ID:        v.group.ID,
			GroupName: v.group.GroupName,
			GroupCode: v.group.GroupCode,
			LogoURL:   v.group.LogoURL,
			Slogan:    v.group.Slogan,
		}
		for _, m := range v.members {
			snap.Members = append(snap.Members, personCard(m.UserID, m.User))
		}

		completed := 0
		for _, t := range v.tasks {
			card := TaskCard{
				ID:           t.ID,
				Title:        t.Title,
				Description:  t.Description,
				TaskOrder:    t.TaskOrder,
				Points:       t.Points,
				TimerMinutes: t.TimerMinutes,
				StartTime:    t.StartTime,
				IsActive:     t.IsActive,
				Locked:       !t.IsActive,
				Status:       models.StatusNotStarted,
				Selected:     v.selectedTaskID != nil && *v.selectedTaskID == t.ID,
			}
			if latest := latestSubmission(t.ID, v.submissions); latest != nil {
				card.Status = latest.Status
				card.Score = latest.Score
			}
			switch card.Status {
			case models.StatusPending:
				card.ReviewMessage = msgUnderReview
			case models.StatusCompleted:
				completed++
			}
			card.AcceptsInput = t.IsActive &&
				card.Status != models.StatusPending &&
				card.Status != models.StatusCompleted
			snap.Tasks = append(snap.Tasks, card)
		}
		if len(v.tasks) > 0 {
			snap.Progress = completed * 100 / len(v.tasks)
		}
	}

	for _, e := range v.leaderboard {
		row := LeaderboardRow{
			ID:             e.ID,
			Rank:           e.Rank,
			TotalScore:     e.TotalScore,
			TasksCompleted: e.TasksCompleted,
			Badge:          rankBadge(e.Rank),
		}
		if e.Group != nil {
			row.GroupName = e.Group.GroupName
			row.LogoURL = e.Group.LogoURL
		}
		row.Highlight = groupName != "" && row.GroupName == groupName
		snap.Leaderboard = append(snap.Leaderboard, row)
	}

	for _, j := range v.judges {
		snap.Judges = append(snap.Judges, personCard(j.UserID, j.User))
	}

	all := v.group != nil && v.allCompleted()
	snap.FeedbackAvailable = all && !v.feedbackDismissed
	snap.MentorshipAvailable = all && !v.mentorshipDismissed
	v.mu.Unlock()

	snap.Notices = v.notices.drain()
	return snap
}
