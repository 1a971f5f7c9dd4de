package wsmodels

import (
	dbmodels "ai-interview-backend/models/db"
)

type EventCode string

const (
	SessionCreatedCode  EventCode = "session_created"
	SessionLiveCode     EventCode = "session_live"
	AnswerAcceptedCode  EventCode = "answer_accepted"
	SessionFinishedCode EventCode = "session_finished"
	SessionAbortedCode  EventCode = "session_aborted"
	SessionStateCode    EventCode = "session_state"
)

type ServerMessage struct {
	SessionID            string                   `json:"session_id"`
	Time                 string                   `json:"time"` // время события
	Code                 EventCode                `json:"code"` // код события
	Msg                  string                   `json:"msg"`  // текст события
	Status               dbmodels.InterviewStatus `json:"status"`
	CurrentQuestionIndex int                      `json:"current_question_index"`
}
