package assistantService

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haa1117/AI-Voice-Assistant/internal/api/assistant"
	assistantRepository "github.com/haa1117/AI-Voice-Assistant/internal/api/assistant/repository"
	"github.com/haa1117/AI-Voice-Assistant/pkg/audio"
	cachePkg "github.com/haa1117/AI-Voice-Assistant/pkg/cache"
	"github.com/haa1117/AI-Voice-Assistant/pkg/nlp"
	utilsPkg "github.com/haa1117/AI-Voice-Assistant/pkg/utils"
)

type IAssistantService interface {
	ProcessCommand(ctx context.Context, req assistant.CommandRequest) (*assistant.CommandResponse, error)
	TranscribeAudio(ctx context.Context, file *multipart.FileHeader) (*assistant.TranscriptionResponse, error)
	ServeAudioFile(ctx context.Context, filename string) ([]byte, error)

	GetInteractionHistory(ctx context.Context, page, limit int) ([]assistant.InteractionHistory, int, error)

	CreateAppointment(ctx context.Context, req assistant.AppointmentRequest) (*assistant.AppointmentResponse, error)
	GetAppointments(ctx context.Context) ([]assistant.AppointmentResponse, error)

	QueryPatient(ctx context.Context, req assistant.PatientQueryRequest) (*assistant.PatientInfoResponse, error)
	GetAllPatients(ctx context.Context) ([]assistant.PatientSummary, error)
}

type assistantService struct {
	log         *logrus.Logger
	repo        assistantRepository.Repository
	utils       utilsPkg.IUtils
	transcriber audio.ITranscriber
	synthesizer audio.ISynthesizer
	interpreter *nlp.Interpreter
	directory   *patientDirectory
	audioDir    string
}

func NewAssistantService(
	log *logrus.Logger,
	repo assistantRepository.Repository,
	cache cachePkg.ICache,
	transcriber audio.ITranscriber,
	synthesizer audio.ISynthesizer,
	utils utilsPkg.IUtils,
	opts ...nlp.InterpreterOption,
) IAssistantService {
	store := &schedulingStore{log: log, repo: repo, utils: utils}
	directory := &patientDirectory{log: log, repo: repo, cache: cache, now: time.Now}
	recorder := &interactionRecorder{log: log, repo: repo, utils: utils}

	return &assistantService{
		log:         log,
		repo:        repo,
		utils:       utils,
		transcriber: transcriber,
		synthesizer: synthesizer,
		interpreter: nlp.NewInterpreter(log, store, directory, recorder, opts...),
		directory:   directory,
		audioDir:    "./storage/audio",
	}
}
