package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/admin"
	"github.com/painnoll/painnoll-bot/internal/bot/handlers"
	"github.com/painnoll/painnoll-bot/internal/bot/keyboard"
	errs "github.com/painnoll/painnoll-bot/internal/errors"
	"github.com/painnoll/painnoll-bot/internal/i18n"
	"github.com/painnoll/painnoll-bot/internal/progress"
	"github.com/painnoll/painnoll-bot/internal/state"
	"github.com/painnoll/painnoll-bot/internal/user"
	"github.com/painnoll/painnoll-bot/pkg/config"
)

// Bot wraps telebot.Bot with application dependencies required for handling
// updates. It is also the delivery transport: the scheduler and the admin
// broadcast push outgoing messages through it.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	fsm        state.StateMachine
	router     *Router
	dispatcher *Dispatcher
	keyboard   *keyboard.Builder
	errHandler *errs.Handler
	translator i18n.Translator

	photoHandler handlers.Handler
	videoHandler handlers.Handler
}

// New builds a telegram bot instance configured according to the application
// settings and wires every handler.
func New(
	cfg config.Config,
	log *slog.Logger,
	fsm state.StateMachine,
	users *user.Service,
	progressSvc *progress.Service,
	adminSvc *admin.Service,
	sched handlers.ReminderScheduler,
	translations *i18n.Manager,
) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen:   cfg.Bot.Port,
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	translator := translations.Translator("uz")
	kb := keyboard.NewBuilder(translator)
	dispatcher := NewDispatcher(fsm, log)
	router := NewRouter(dispatcher, log)
	errHandler := errs.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		fsm:        fsm,
		router:     router,
		dispatcher: dispatcher,
		keyboard:   kb,
		errHandler: errHandler,
		translator: translator,
	}

	b.setupRouter(users, progressSvc, adminSvc, sched)
	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot...")
	}

	b.telebot.Stop()
}

// SendReminder delivers a reminder body with the done/remind-later buttons.
func (b *Bot) SendReminder(chatID int64, body string) error {
	_, err := b.telebot.Send(telebot.ChatID(chatID), body, b.keyboard.DailyActions())
	return transportErr(err)
}

// SendText delivers a plain text message, used by admin broadcasts.
func (b *Bot) SendText(chatID int64, text string) error {
	_, err := b.telebot.Send(telebot.ChatID(chatID), text)
	return transportErr(err)
}

// ForwardPhoto re-sends a photo by file identifier with a caption.
func (b *Bot) ForwardPhoto(chatID int64, fileID, caption string) error {
	photo := &telebot.Photo{File: telebot.File{FileID: fileID}, Caption: caption}
	_, err := b.telebot.Send(telebot.ChatID(chatID), photo)
	return transportErr(err)
}

// ForwardVideo re-sends a video by file identifier with a caption.
func (b *Bot) ForwardVideo(chatID int64, fileID, caption string) error {
	video := &telebot.Video{File: telebot.File{FileID: fileID}, Caption: caption}
	_, err := b.telebot.Send(telebot.ChatID(chatID), video)
	return transportErr(err)
}

// transportErr classifies an outgoing delivery failure.
func transportErr(err error) error {
	if err == nil {
		return nil
	}
	return errs.NewTransportError(err)
}

func (b *Bot) setupRouter(
	users *user.Service,
	progressSvc *progress.Service,
	adminSvc *admin.Service,
	sched handlers.ReminderScheduler,
) {
	if b.router == nil {
		return
	}

	t := b.translator
	log := b.log

	b.router.Use(RecoveryMiddleware(log, b.errHandler))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(log))
	b.router.Use(MetricsMiddleware)
	b.router.Use(ProvisionMiddleware(users, log))

	// Commands.
	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(users, sched, b.keyboard, t, log))
	b.router.RegisterCommand(CommandAdmin, handlers.NewAdminPanelHandler(adminSvc, b.keyboard, t))

	// Reminder buttons.
	b.router.RegisterCallback(CallbackRemindLater, handlers.NewRemindLaterHandler(progressSvc, sched, t, log))
	b.router.RegisterCallback(CallbackDone, handlers.NewDoneCallbackHandler(progressSvc, t, log))

	// Registration question flow.
	b.dispatcher.RegisterStateHandler(state.StateAwaitName, handlers.NewAwaitNameHandler(users, b.fsm, t))
	b.dispatcher.RegisterStateHandler(state.StateAwaitAge, handlers.NewAwaitAgeHandler(users, b.fsm, t))
	b.dispatcher.RegisterStateHandler(state.StateAwaitWeight, handlers.NewAwaitWeightHandler(users, b.fsm, t))
	b.dispatcher.RegisterStateHandler(state.StateAwaitHeight, handlers.NewAwaitHeightHandler(users, b.fsm, b.keyboard, t))
	b.dispatcher.RegisterStateHandler(state.StateAwaitIssue, handlers.NewAwaitIssueHandler(users, b.fsm, b.keyboard, t))
	b.dispatcher.RegisterStateHandler(state.StateAwaitProduct, handlers.NewAwaitProductHandler(users, b.fsm, sched, b.keyboard, t))
	b.dispatcher.RegisterStateHandler(state.StateAwaitBroadcast, handlers.NewAwaitBroadcastHandler(adminSvc, b, b.fsm, log))

	// Main menu buttons.
	b.router.RegisterText(t.T("menu.profile"), handlers.NewProfileHandler(users, b.keyboard, t))
	b.router.RegisterText(t.T("menu.meals"), handlers.NewMealsHandler(users, b.keyboard))
	b.router.RegisterText(t.T("menu.products"), handlers.NewProductsMenuHandler(b.keyboard, t))
	b.router.RegisterText(t.T("menu.stats"), handlers.NewStatsHandler(progressSvc))
	b.router.RegisterText(t.T("menu.contact"), handlers.NewContactHandler(users, t))
	b.router.RegisterText(t.T("menu.promo"), handlers.NewPromoHandler(t))
	b.router.RegisterText(t.T("menu.register"), handlers.NewRegistrationStartHandler(b.fsm, t, log))
	b.router.RegisterText(t.T("menu.back"), handlers.NewBackHandler(users, b.fsm, b.keyboard, t, log))

	// Product and issue buttons outside the registration flow.
	productSelect := handlers.NewProductSelectHandler(users, sched, b.keyboard, t)
	for _, key := range []string{"product.painnoll", "product.biodetox", "product.vitapro", "product.nutramax"} {
		b.router.RegisterText(t.T(key), productSelect)
	}

	issueSelect := handlers.NewIssueSelectHandler(users, b.keyboard, t)
	for _, key := range []string{"issue.joints", "issue.digestion", "issue.prostate", "issue.detox"} {
		b.router.RegisterText(t.T(key), issueSelect)
	}

	// Admin panel buttons.
	b.router.RegisterText(t.T("admin.users"), handlers.NewAdminUsersHandler(adminSvc))
	b.router.RegisterText(t.T("admin.stats"), handlers.NewAdminStatsHandler(adminSvc))
	b.router.RegisterText(t.T("admin.broadcast"), handlers.NewBroadcastStartHandler(adminSvc, b.fsm, t))

	// Free text falls through to the consultation persona.
	b.router.SetDefault(handlers.NewConsultationHandler(users, log))

	b.photoHandler = handlers.NewPhotoHandler(b, b.cfg.Bot.AdminIDs, t, log)
	b.videoHandler = handlers.NewVideoHandler(b, b.cfg.Bot.AdminIDs, t, log)
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
	b.telebot.Handle(telebot.OnPhoto, func(c telebot.Context) error {
		return b.router.Execute(b.photoHandler, c)
	})
	b.telebot.Handle(telebot.OnVideo, func(c telebot.Context) error {
		return b.router.Execute(b.videoHandler, c)
	})
}
