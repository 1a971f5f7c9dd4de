package apiv1

import (
	"ai-interview-backend/controllers"
	"ai-interview-backend/fiberlog"
	ailogstore "ai-interview-backend/lib/gpt/store"
	interviewhandler "ai-interview-backend/lib/interview"
	apimodels "ai-interview-backend/models/api"
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type interviewController struct {
	controllers.BaseAPIController
}

func InitInterviewRouters(app *fiber.App) {
	controller := interviewController{}
	app.Route("interview", func(interviewRoute fiber.Router) {
		interviewRoute.Post("sessions", controller.Start)
		interviewRoute.Get("sessions", controller.FindByJob)
		interviewRoute.Route("sessions/:id", func(sessionRoute fiber.Router) {
			sessionRoute.Get("", controller.Get)
			sessionRoute.Post("question", controller.ServeQuestion)
			sessionRoute.Get("question/audio", controller.QuestionAudio)
			sessionRoute.Post("answer", controller.SubmitAnswer)
			sessionRoute.Post("abort", controller.Abort)
			sessionRoute.Get("ai-log", controller.AiLog)
		})
	})
}

// @Summary Создание сессии интервью
// @Tags Интервью
// @Description Создание сессии, в ответе первый вопрос
// @Param	body body	 interviewapimodels.StartRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionView}
// @Failure 400 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/sessions [post]
func (c *interviewController) Start(ctx *fiber.Ctx) error {
	var payload interviewapimodels.StartRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}

	rec, err := interviewhandler.Instance.Start(ctx.UserContext(), payload.JobID, payload.UserID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("job_id", payload.JobID), err, "ошибка создания сессии интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(interviewapimodels.ConvertSession(rec)))
}

// @Summary Сессия интервью
// @Tags Интервью
// @Param   id          path    string  true    "Идентификатор сессии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/sessions/{id} [get]
func (c *interviewController) Get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}
	rec, err := interviewhandler.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения сессии интервью")
	}
	ctx.Set(fiberlog.HeaderLogIgnore, "true")
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(interviewapimodels.ConvertSession(rec)))
}

// @Summary Список сессий интервью по вакансии
// @Tags Интервью
// @Param   job_id      query   string  true    "Идентификатор вакансии"
// @Success 200 {object} apimodels.Response{data=[]interviewapimodels.SessionView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/sessions [get]
func (c *interviewController) FindByJob(ctx *fiber.Ctx) error {
	jobID := ctx.Query("job_id")
	if jobID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, "не указан параметр job_id"))
	}
	list, err := interviewhandler.Instance.FindByJob(ctx.UserContext(), jobID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("job_id", jobID), err, "ошибка получения списка сессий интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(interviewapimodels.ConvertSessions(list)))
}

// @Summary Текущий вопрос
// @Tags Интервью
// @Description Выдача текущего вопроса кандидату, первая выдача переводит сессию в статус LIVE
// @Param   id          path    string  true    "Идентификатор сессии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionView}
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 423 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/sessions/{id}/question [post]
func (c *interviewController) ServeQuestion(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}
	rec, err := interviewhandler.Instance.ServeQuestion(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения вопроса")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(interviewapimodels.ConvertSession(rec)))
}

// @Summary Озвучка текущего вопроса
// @Tags Интервью
// @Param   id          path    string  true    "Идентификатор сессии"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/interview/sessions/{id}/question/audio [get]
func (c *interviewController) QuestionAudio(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}
	file, err := interviewhandler.Instance.SynthesizeQuestion(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка синтеза речи")
	}
	ctx.Set(fiber.HeaderContentType, file.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, "inline; filename="+strconv.Quote(file.FileName))
	return ctx.Status(fiber.StatusOK).Send(file.Body)
}

// @Summary Журнал запросов к ИИ
// @Tags Интервью
// @Description Промты и ответы ИИ при генерации вопросов сессии
// @Param   id          path    string  true    "Идентификатор сессии"
// @Success 200 {object} apimodels.Response{data=[]interviewapimodels.AiLogView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/sessions/{id}/ai-log [get]
func (c *interviewController) AiLog(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}
	if _, err = interviewhandler.Instance.Get(ctx.UserContext(), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения сессии интервью")
	}
	list := []dbmodels.AiLog{}
	if ailogstore.Instance != nil {
		list, err = ailogstore.Instance.FindBySession(ctx.UserContext(), id)
		if err != nil {
			return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения журнала запросов к ИИ")
		}
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(interviewapimodels.ConvertAiLogs(list)))
}

// @Summary Ответ кандидата
// @Tags Интервью
// @Description Текстовый ответ в json, аудио/видео ответ в multipart/form-data (поле file)
// @Param   id          path    string  true    "Идентификатор сессии"
// @Param	body body	 interviewapimodels.AnswerRequest	false	"текстовый ответ"
// @Param   modality        formData    string  false   "TEXT/AUDIO/VIDEO"
// @Param   content         formData    string  false   "текст ответа"
// @Param   question_index  formData    int     false   "номер вопроса"
// @Param   duration_sec    formData    number  false   "длительность ответа"
// @Param   file            formData    file    false   "файл ответа"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 423 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/sessions/{id}/answer [post]
func (c *interviewController) SubmitAnswer(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}
	payload, err := c.parseAnswer(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}

	rec, err := interviewhandler.Instance.SubmitAnswer(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка сохранения ответа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(interviewapimodels.ConvertSession(rec)))
}

// @Summary Прерывание интервью
// @Tags Интервью
// @Param   id          path    string  true    "Идентификатор сессии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionView}
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 423 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/sessions/{id}/abort [post]
func (c *interviewController) Abort(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest, err.Error()))
	}
	rec, err := interviewhandler.Instance.Abort(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка прерывания интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(interviewapimodels.ConvertSession(rec)))
}

func (c *interviewController) parseAnswer(ctx *fiber.Ctx) (result interviewapimodels.AnswerRequest, err error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		// не multipart, текстовый ответ
		if err = c.BodyParser(ctx, &result); err != nil {
			return result, err
		}
		return result, nil
	}

	result.Modality = dbmodels.AnswerModality(ctx.FormValue("modality"))
	result.Content = ctx.FormValue("content")
	if value := ctx.FormValue("question_index"); value != "" {
		index, err := strconv.Atoi(value)
		if err != nil {
			return result, errors.New("некорректный номер вопроса")
		}
		result.QuestionIndex = &index
	}
	if value := ctx.FormValue("duration_sec"); value != "" {
		duration, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return result, errors.New("некорректная длительность ответа")
		}
		result.DurationSec = &duration
	}
	files := form.File["file"]
	if len(files) == 0 {
		return result, nil
	}
	header := files[0]
	file, err := header.Open()
	if err != nil {
		return result, errors.Wrap(err, "ошибка чтения файла ответа")
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return result, errors.Wrap(err, "ошибка чтения файла ответа")
	}
	result.Media = &interviewapimodels.FileData{
		FileName:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Body:        body,
	}
	if result.Modality == "" {
		result.Modality = dbmodels.AnswerAudio
	}
	return result, nil
}
