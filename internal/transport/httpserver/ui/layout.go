package ui

import (
	"net/http"
	"net/url"
	"strconv"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
	postsdomain "social-app-go/internal/domain/posts"
	"social-app-go/internal/transport/httpserver/middleware"
)

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2328}
a{color:#0b5cad;text-decoration:none}a:hover{text-decoration:underline}
.site-header{background:#1f2328;padding:.75rem 1rem}
.site-header nav{display:flex;gap:1rem;align-items:center;max-width:48rem;margin:0 auto}
.site-header a,.site-header button{color:#fff;background:none;border:0;font:inherit;cursor:pointer;padding:0}
.site-header .spacer{flex:1}
.container{max-width:48rem;margin:1.5rem auto;padding:0 1rem}
.flash{padding:.75rem 1rem;border-radius:6px;margin-bottom:1rem}
.flash-success{background:#dafbe1}.flash-warning{background:#fff8c5}.flash-info{background:#ddf4ff}
.errors{background:#ffebe9;padding:.75rem 1rem;border-radius:6px}
.card{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:1rem;margin-bottom:1rem}
.meta{color:#59636e;font-size:.875rem}
.field{margin-bottom:.75rem}.field label{display:block;font-weight:600;margin-bottom:.25rem}
.field input,.field textarea,.field select{width:100%;box-sizing:border-box;padding:.4rem}
.inline{display:inline}
.pager{display:flex;justify-content:space-between;margin-top:1rem}
.gallery{display:grid;grid-template-columns:repeat(auto-fill,minmax(10rem,1fr));gap:.75rem}
.gallery img,.avatar{max-width:100%;border-radius:6px}
`

const timeLayout = "Jan 2, 2006 15:04"

func (h *Handler) page(r *http.Request, title string, body ...Node) Node {
	notice, hasNotice := flashFromContext(r.Context())

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text(title+" | Social")),
				StyleEl(Raw(stylesheet)),
			),
			Body(
				Header(Class("site-header"), navBar(r)),
				Main(Class("container"),
					If(hasNotice, Div(Class("flash flash-"+string(notice.Level)), Text(notice.Message))),
					Group(body),
				),
			),
		),
	)
}

func navBar(r *http.Request) Node {
	user, signedIn := middleware.UserFromContext(r.Context())
	if !signedIn {
		return Nav(
			A(Href("/"), Strong(Text("Social"))),
			A(Href("/groups"), Text("Groups")),
			A(Href("/images"), Text("Images")),
			Span(Class("spacer")),
			A(Href("/accounts/login"), Text("Log in")),
			A(Href("/accounts/signup"), Text("Sign up")),
		)
	}

	return Nav(
		A(Href("/"), Strong(Text("Social"))),
		A(Href("/groups"), Text("Groups")),
		A(Href("/images"), Text("Images")),
		A(Href("/posts/new"), Text("New post")),
		Span(Class("spacer")),
		A(Href(profilePath(user.Username)), Text("@"+user.Username)),
		Form(Class("inline"), Method("post"), Action("/accounts/logout"),
			csrfField(r),
			Button(Type("submit"), Text("Log out")),
		),
	)
}

func errorContent(title, message string) Node {
	return Section(Class("card"),
		H1(Text(title)),
		P(Text(message)),
		P(A(Href("/"), Text("Back to the front page"))),
	)
}

func formErrors(errs []string) Node {
	if len(errs) == 0 {
		return nil
	}
	return Ul(Class("errors"), Map(errs, func(message string) Node {
		return Li(Text(message))
	}))
}

func field(label, name string, control Node) Node {
	return Div(Class("field"),
		Label(Attr("for", name), Text(label)),
		control,
	)
}

func textInput(label, name, inputType, value string, extra ...Node) Node {
	attrs := []Node{Type(inputType), ID(name), Name(name), Value(value)}
	return field(label, name, Input(append(attrs, extra...)...))
}

func postCard(post postsdomain.PostView) Node {
	return Article(Class("card"),
		P(Text(post.Message)),
		P(Class("meta"),
			Text("by "),
			A(Href(userPostsPath(post.Username)), Text("@"+post.Username)),
			postGroupLink(post),
			Text(" on "),
			A(Href(postPath(post.Username, post.ID)), Text(post.CreatedAt.Format(timeLayout))),
		),
	)
}

func postGroupLink(post postsdomain.PostView) Node {
	if post.GroupSlug == nil || post.GroupName == nil {
		return nil
	}
	return Group{Text(" in "), A(Href(groupPath(*post.GroupSlug)), Text(*post.GroupName))}
}

func postList(page postsdomain.Page, basePath string) Node {
	if len(page.Posts) == 0 {
		return P(Class("meta"), Text("No posts yet."))
	}
	return Div(
		Map(page.Posts, postCard),
		pager(page, basePath),
	)
}

func pager(page postsdomain.Page, basePath string) Node {
	if !page.HasPrevious() && !page.HasNext() {
		return nil
	}
	current := 1
	if page.Limit > 0 {
		current = page.Offset/page.Limit + 1
	}
	return Nav(Class("pager"),
		If(page.HasPrevious(), A(Href(pagePath(basePath, current-1)), Text("Newer"))),
		Span(Class("meta"), Textf("Page %d", current)),
		If(page.HasNext(), A(Href(pagePath(basePath, current+1)), Text("Older"))),
	)
}

func pagePath(basePath string, page int) string {
	if page <= 1 {
		return basePath
	}
	return basePath + "?page=" + strconv.Itoa(page)
}

func groupPath(slug string) string {
	return "/groups/" + url.PathEscape(slug)
}

func userPostsPath(username string) string {
	return "/posts/by/" + url.PathEscape(username)
}

func postPath(username, postID string) string {
	return userPostsPath(username) + "/" + url.PathEscape(postID)
}

func profilePath(username string) string {
	return "/profiles/" + url.PathEscape(username)
}
