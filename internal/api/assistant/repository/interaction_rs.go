package assistantRepository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/haa1117/AI-Voice-Assistant/internal/entity"
	contextPkg "github.com/haa1117/AI-Voice-Assistant/pkg/context"
)

type VoiceInteractionDB struct {
	ID          sql.NullString  `db:"id"`
	Transcript  sql.NullString  `db:"transcript"`
	CommandType sql.NullString  `db:"command_type"`
	Response    sql.NullString  `db:"response"`
	Confidence  sql.NullFloat64 `db:"confidence"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (v VoiceInteractionDB) toEntity() entity.VoiceInteraction {
	return entity.VoiceInteraction{
		ID:          v.ID.String,
		Transcript:  v.Transcript.String,
		CommandType: v.CommandType.String,
		Response:    v.Response.String,
		Confidence:  v.Confidence.Float64,
		CreatedAt:   v.CreatedAt,
	}
}

func (r *interactionRepository) CreateInteraction(ctx context.Context, interaction entity.VoiceInteraction) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":           interaction.ID,
		"transcript":   interaction.Transcript,
		"command_type": interaction.CommandType,
		"response":     interaction.Response,
		"confidence":   interaction.Confidence,
		"created_at":   interaction.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateInteraction, argsKV)
	if err != nil {
		return err
	}

	query = r.q.Rebind(query)
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to insert voice interaction")
		return err
	}

	return nil
}

func (r *interactionRepository) GetInteractions(ctx context.Context, limit, offset int) ([]entity.VoiceInteraction, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	query, args, err := sqlx.Named(queryGetInteractions, argsKV)
	if err != nil {
		return nil, 0, err
	}

	var rows []VoiceInteractionDB
	query = r.q.Rebind(query)
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to fetch voice interactions")
		return nil, 0, err
	}

	var total int
	if err := r.q.GetContext(ctx, &total, queryCountInteractions); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to count voice interactions")
		return nil, 0, err
	}

	interactions := make([]entity.VoiceInteraction, 0, len(rows))
	for _, row := range rows {
		interactions = append(interactions, row.toEntity())
	}

	return interactions, total, nil
}
