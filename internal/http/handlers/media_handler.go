package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/codeportfolio/backend/internal/http/handlers/common"
	"github.com/codeportfolio/backend/internal/http/response"
	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/storage"
)

// Разрешённые типы файлов для загрузки
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Разрешённые расширения файлов
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaHandler управляет загрузкой картинок проектов.
type MediaHandler struct {
	storage *storage.ImageStorage
}

// NewMediaHandler создаёт хэндлер.
func NewMediaHandler(store *storage.ImageStorage) *MediaHandler {
	return &MediaHandler{storage: store}
}

// UploadedImage — результат сохранения одного файла.
type UploadedImage struct {
	URL      string `json:"url"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

// UploadImages обрабатывает POST /api/media/images.
// Принимает до пяти файлов за раз в поле files. Партия сохраняется
// целиком или не сохраняется вовсе: при ошибке на любом файле уже
// записанные откатываются.
func (h *MediaHandler) UploadImages(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "ожидается multipart форма")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.BadRequest(c, "поле files обязательно")
		return
	}
	if len(files) > models.MaxProjectImages {
		response.BadRequest(c, fmt.Sprintf("за один раз можно загрузить не более %d файлов", models.MaxProjectImages))
		return
	}

	// Сначала валидируем всю партию, потом пишем: дешёвый способ не
	// откатывать половину партии из-за битого последнего файла.
	for _, file := range files {
		if err := h.validateImage(file); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	saved := make([]string, 0, len(files))
	result := make([]UploadedImage, 0, len(files))

	for _, file := range files {
		uploaded, relative, err := h.saveOne(c, userID, file)
		if err != nil {
			// Откатываем всё, что успели записать.
			for _, rel := range saved {
				_ = h.storage.Delete(c.Request.Context(), rel)
			}
			if errors.Is(err, storage.ErrFileTooLarge) {
				response.BadRequest(c, fmt.Sprintf("файл %s превышает лимит размера", file.Filename))
				return
			}
			response.Error(c, err)
			return
		}
		saved = append(saved, relative)
		result = append(result, *uploaded)
	}

	c.JSON(http.StatusCreated, response.Response{Success: true, Data: gin.H{"images": result}})
}

// DeleteImage обрабатывает DELETE /api/media/images.
// Удаляет файл по публичному URL. Чужой или неизвестный адрес — no-op
// с успешным ответом: двойное удаление не ошибка.
func (h *MediaHandler) DeleteImage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rel := h.storage.RelativePath(req.URL)
	if rel == "" {
		response.Success(c, gin.H{"deleted": false})
		return
	}

	// Файлы лежат в каталоге пользователя: чужой путь не удалится.
	if !strings.HasPrefix(rel, userID.String()+"/") {
		response.Success(c, gin.H{"deleted": false})
		return
	}

	if err := h.storage.Delete(c.Request.Context(), rel); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// validateImage проверяет расширение и магические байты файла.
func (h *MediaHandler) validateImage(file *multipart.FileHeader) error {
	if file.Size == 0 {
		return fmt.Errorf("файл %s пустой", file.Filename)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("неподдерживаемый формат файла %s", file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("не удалось открыть файл %s", file.Filename)
	}
	defer src.Close()

	// Читаем первые 512 байт для проверки магических байтов
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("не удалось прочитать файл %s", file.Filename)
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		return fmt.Errorf("не удалось определить тип файла %s, разрешены только изображения", file.Filename)
	}

	if !allowedMimeTypes[kind.MIME.Value] {
		return fmt.Errorf("неподдерживаемый тип файла %s (%s)", file.Filename, kind.MIME.Value)
	}

	return nil
}

// saveOne пишет один файл в хранилище и возвращает публичный URL.
func (h *MediaHandler) saveOne(c *gin.Context, userID uuid.UUID, file *multipart.FileHeader) (*UploadedImage, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("не удалось открыть файл %s: %w", file.Filename, err)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, _ := src.Read(buffer)
	kind, _ := filetype.Match(buffer[:n])

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("не удалось сбросить позицию файла: %w", err)
	}

	relative, size, err := h.storage.Save(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		return nil, "", err
	}

	return &UploadedImage{
		URL:      h.storage.PublicURL(relative),
		FileSize: size,
		MimeType: kind.MIME.Value,
	}, relative, nil
}
