package ui

import (
	"net/http"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
	imagesdomain "social-app-go/internal/domain/images"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
)

func (h *Handler) ImagesPage(w http.ResponseWriter, r *http.Request) {
	h.renderImages(w, r, http.StatusOK, nil)
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	file, err := commonhandler.OpenUpload(w, r, "photo", h.MaxUploadBytes)
	if err == nil {
		defer commonhandler.CloseUpload(r, file)
		_, err = h.Images.Upload(r.Context(), user.ID, file)
	}
	if err != nil {
		status, _, message, ok := commonhandler.UploadError(err)
		if !ok {
			h.serverError(w, r, "ui.images: upload failed", err)
			return
		}
		h.requestLog(r).BusinessError("ui.images: rejected upload", err, "user_id", user.ID)
		h.renderImages(w, r, status, []string{"Upload rejected: " + message + "."})
		return
	}

	h.setFlash(w, flashSuccess, "Image uploaded.")
	redirect(w, r, "/images")
}

func (h *Handler) renderImages(w http.ResponseWriter, r *http.Request, status int, errs []string) {
	images, err := h.Images.List(r.Context())
	if err != nil {
		h.serverError(w, r, "ui.images: list images failed", err)
		return
	}

	_, signedIn := middleware.UserFromContext(r.Context())

	renderHTML(w, status, h.page(r, "Images",
		H1(Text("Images")),
		formErrors(errs),
		If(signedIn, Section(Class("card"),
			Form(Method("post"), Action("/images"), Attr("enctype", "multipart/form-data"),
				csrfField(r),
				field("Photo", "photo", Input(Type("file"), ID("photo"), Name("photo"), Required(), Attr("accept", "image/jpeg,image/png,image/webp"))),
				Button(Type("submit"), Text("Upload")),
			),
		)),
		If(len(images) == 0, P(Class("meta"), Text("No images uploaded yet."))),
		Div(Class("gallery"), Map(images, func(image imagesdomain.Image) Node {
			url := commonhandler.MediaURL(image.ObjectKey)
			return A(Href(url), Img(Src(url), Alt("Uploaded image"), Attr("loading", "lazy")))
		})),
	))
}
