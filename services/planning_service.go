package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/volley-planning/assistant"
	"github.com/Dosada05/volley-planning/models"
	"github.com/Dosada05/volley-planning/repositories"
	"github.com/Dosada05/volley-planning/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// LiveBroadcaster рассылает событие всем подписчикам комнаты турнира.
// Реализуется live.Hub; nil означает "без live-уведомлений".
type LiveBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type planningStatusEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// PlanningService управляет полным циклом планирования: гейт валидации →
// шапка в статусе generating → вызов ассистента → разложение и запись
// матчей/поул с компенсирующим откатом. Шапка ai_tournament_planning
// принадлежит только этому сервису.
type PlanningService struct {
	planningRepo repositories.PlanningRepository
	matchRepo    repositories.MatchRepository
	poolRepo     repositories.PoolRepository
	tournaments  *TournamentService
	assistant    assistant.Client
	uploader     storage.FileUploader // optional, архив сырых ответов
	hub          LiveBroadcaster      // optional
	logger       *slog.Logger
	background   bool
}

// NewPlanningService собирает сервис. background=true переводит генерацию в
// фоновый режим: POST /generate сразу отвечает шапкой в статусе generating,
// а клиенты следят за прогрессом через /status или websocket.
func NewPlanningService(
	planningRepo repositories.PlanningRepository,
	matchRepo repositories.MatchRepository,
	poolRepo repositories.PoolRepository,
	tournaments *TournamentService,
	assistantClient assistant.Client,
	uploader storage.FileUploader,
	hub LiveBroadcaster,
	logger *slog.Logger,
	background bool,
) *PlanningService {
	return &PlanningService{
		planningRepo: planningRepo,
		matchRepo:    matchRepo,
		poolRepo:     poolRepo,
		tournaments:  tournaments,
		assistant:    assistantClient,
		uploader:     uploader,
		hub:          hub,
		logger:       logger,
		background:   background,
	}
}

// GeneratePlanning запускает генерацию планирования для турнира.
//
// Синхронная часть: загрузка турнира, гейт валидации (до любого внешнего
// вызова) и вставка шапки со статусом generating. Частичный уникальный
// индекс на ai_tournament_planning гарантирует не больше одного живого
// планирования на турнир: конкурирующий запрос получает ErrPlanningConflict
// ещё до обращения к ассистенту.
func (s *PlanningService) GeneratePlanning(ctx context.Context, tournamentID string) (*models.Planning, error) {
	data, err := s.tournaments.LoadTournamentWithTeams(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.tournaments.ValidateForPlanning(data); err != nil {
		return nil, err
	}

	planning := &models.Planning{
		ID:             uuid.NewString(),
		TournamentID:   tournamentID,
		TournamentType: data.Tournament.TournamentType,
		Status:         models.PlanningStatusGenerating,
	}
	if err := s.planningRepo.Create(ctx, planning); err != nil {
		if errors.Is(err, repositories.ErrPlanningAlreadyExists) {
			return nil, ErrPlanningConflict
		}
		return nil, fmt.Errorf("creating planning header: %w", err)
	}

	s.broadcastStatus(planning)
	s.logger.Info("planning generation started",
		slog.String("planning_id", planning.ID),
		slog.String("tournament_id", tournamentID),
		slog.Bool("background", s.background))

	if s.background {
		// Вызывающий сериализует planning в ответ 201, пока конвейер работает;
		// горутина получает собственную копию шапки, общей памяти нет.
		job := *planning
		go func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("planning generation panicked",
						slog.String("planning_id", job.ID), slog.Any("panic", r))
				}
			}()
			// Запрос клиента уже отвечен; фоновая работа живёт со своим контекстом.
			if _, err := s.runGeneration(context.Background(), &job, data); err != nil {
				s.logger.Error("background planning generation failed",
					slog.String("planning_id", job.ID), slog.Any("error", err))
			}
		}()
		return planning, nil
	}

	return s.runGeneration(ctx, planning, data)
}

// runGeneration выполняет вызов ассистента и конвейер записи. Ошибка
// ассистента или валидации помечает шапку failed (строка остаётся, детей
// нет); ошибка записи запускает компенсирующий откат, после которого
// планирование исчезает целиком.
func (s *PlanningService) runGeneration(ctx context.Context, planning *models.Planning, data *models.TournamentWithTeams) (*models.Planning, error) {
	prompt := BuildPlanningPrompt(data.Tournament, data.Teams)

	raw, err := s.assistant.GenerateSchedule(ctx, prompt)
	if err != nil {
		s.markFailed(ctx, planning)
		return nil, fmt.Errorf("%w: %v", ErrAssistantFailed, err)
	}

	schedule, err := models.ParseScheduleData(raw)
	if err != nil {
		s.markFailed(ctx, planning)
		return nil, fmt.Errorf("%w: %v", ErrScheduleRejected, err)
	}

	s.archiveRawPayload(ctx, planning.ID, raw)

	now := time.Now().UTC()

	// Шаг 1: шапка. Сырой payload, пересчитанный total_matches (заявлению
	// ассистента не доверяем) и комментарии.
	planning.PlanningData = raw
	planning.TotalMatches = schedule.TotalMatches()
	planning.AIComments = schedule.Commentaires
	if err := s.planningRepo.MarkGenerated(ctx, planning); err != nil {
		s.rollbackPlanning(ctx, planning.ID)
		return nil, fmt.Errorf("%w: header: %v", ErrPersistenceFailed, err)
	}

	// Шаг 2: матчи.
	matches := ExtractMatches(s.logger, planning.ID, schedule, now)
	if err := s.matchRepo.BulkInsert(ctx, matches); err != nil {
		s.rollbackPlanning(ctx, planning.ID)
		return nil, fmt.Errorf("%w: matches: %v", ErrPersistenceFailed, err)
	}

	// Шаг 3: поулы.
	pools := ExtractPools(planning.ID, schedule, now)
	if err := s.poolRepo.BulkInsert(ctx, pools); err != nil {
		s.rollbackPlanning(ctx, planning.ID)
		return nil, fmt.Errorf("%w: poules: %v", ErrPersistenceFailed, err)
	}

	planning.Status = models.PlanningStatusGenerated
	s.broadcastStatus(planning)
	s.logger.Info("planning generated",
		slog.String("planning_id", planning.ID),
		slog.Int("total_matches", planning.TotalMatches),
		slog.Int("match_rows", len(matches)),
		slog.Int("poule_rows", len(pools)))

	return planning, nil
}

// RegeneratePlanning удаляет планирование со всеми производными строками и
// запускает генерацию заново для того же турнира. Операция разрушающая и не
// атомарная: если новая генерация не началась, турнир остаётся без
// планирования вовсе.
func (s *PlanningService) RegeneratePlanning(ctx context.Context, planningID string) (*models.Planning, error) {
	old, err := s.planningRepo.GetByID(ctx, planningID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlanningNotFound) {
			return nil, ErrPlanningNotFound
		}
		return nil, err
	}

	s.logger.Info("regenerating planning",
		slog.String("planning_id", planningID),
		slog.String("tournament_id", old.TournamentID))

	s.rollbackPlanning(ctx, planningID)

	return s.GeneratePlanning(ctx, old.TournamentID)
}

func (s *PlanningService) GetStatus(ctx context.Context, planningID string) (models.PlanningStatus, error) {
	status, err := s.planningRepo.GetStatus(ctx, planningID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlanningNotFound) {
			return "", ErrPlanningNotFound
		}
		return "", err
	}
	return status, nil
}

func (s *PlanningService) GetByPlanningID(ctx context.Context, planningID string) (*models.Planning, error) {
	planning, err := s.planningRepo.GetByID(ctx, planningID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlanningNotFound) {
			return nil, ErrPlanningNotFound
		}
		return nil, err
	}
	return s.attachDetails(ctx, planning)
}

func (s *PlanningService) GetByTournamentID(ctx context.Context, tournamentID string) (*models.Planning, error) {
	planning, err := s.planningRepo.GetByTournamentID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlanningNotFound) {
			return nil, ErrPlanningNotFound
		}
		return nil, err
	}
	return s.attachDetails(ctx, planning)
}

// attachDetails подтягивает матчи и поулы параллельно.
func (s *PlanningService) attachDetails(ctx context.Context, planning *models.Planning) (*models.Planning, error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matches, err := s.matchRepo.ListByPlanningID(gctx, planning.ID)
		if err != nil {
			return fmt.Errorf("loading matches: %w", err)
		}
		planning.Matches = matches
		return nil
	})
	g.Go(func() error {
		pools, err := s.poolRepo.ListByPlanningID(gctx, planning.ID)
		if err != nil {
			return fmt.Errorf("loading poules: %w", err)
		}
		planning.Pools = pools
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return planning, nil
}

// rollbackPlanning — компенсирующий откат: матчи, поулы, затем шапка.
// У хранилища нет межтабличных транзакций, поэтому порядок удаления и
// идемпотентность каждого шага — единственные гарантии. Повторный вызов на
// уже удалённых строках — no-op.
func (s *PlanningService) rollbackPlanning(ctx context.Context, planningID string) {
	if err := s.matchRepo.DeleteByPlanningID(ctx, planningID); err != nil {
		s.logger.Error("rollback: failed to delete matches",
			slog.String("planning_id", planningID), slog.Any("error", err))
	}
	if err := s.poolRepo.DeleteByPlanningID(ctx, planningID); err != nil {
		s.logger.Error("rollback: failed to delete poules",
			slog.String("planning_id", planningID), slog.Any("error", err))
	}
	if err := s.planningRepo.Delete(ctx, planningID); err != nil {
		s.logger.Error("rollback: failed to delete planning header",
			slog.String("planning_id", planningID), slog.Any("error", err))
	}
}

func (s *PlanningService) markFailed(ctx context.Context, planning *models.Planning) {
	if err := s.planningRepo.UpdateStatus(ctx, planning.ID, models.PlanningStatusFailed); err != nil {
		s.logger.Error("failed to mark planning as failed",
			slog.String("planning_id", planning.ID), slog.Any("error", err))
		return
	}
	planning.Status = models.PlanningStatusFailed
	s.broadcastStatus(planning)
}

// archiveRawPayload сохраняет сырой ответ ассистента в объектное хранилище
// для разбора инцидентов. Лучшая попытка: ошибка архивации логируется и не
// влияет на генерацию.
func (s *PlanningService) archiveRawPayload(ctx context.Context, planningID string, raw []byte) {
	if s.uploader == nil {
		return
	}
	key := fmt.Sprintf("plannings/%s.json", planningID)
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(raw)); err != nil {
		s.logger.Warn("failed to archive assistant payload",
			slog.String("planning_id", planningID), slog.Any("error", err))
	}
}

func (s *PlanningService) broadcastStatus(planning *models.Planning) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(planning.TournamentID, planningStatusEvent{
		Type: "PLANNING_STATUS",
		Payload: map[string]interface{}{
			"planning_id":   planning.ID,
			"tournament_id": planning.TournamentID,
			"status":        planning.Status,
		},
		RoomID: planning.TournamentID,
	})
}
