package handler

import (
	"slices"

	"github.com/valyala/fasthttp"
	"golang.org/x/text/language"

	"github.com/fastygo/degreeprogram/domain"
)

// languageNegotiator picks the view language: an explicit ?lang= wins,
// then Accept-Language, then the first configured language.
type languageNegotiator struct {
	supported []string
	matcher   language.Matcher
}

func newLanguageNegotiator(supported []string) languageNegotiator {
	if len(supported) == 0 {
		supported = domain.Languages
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, code := range supported {
		tags = append(tags, language.Make(code))
	}
	return languageNegotiator{supported: supported, matcher: language.NewMatcher(tags)}
}

func (n languageNegotiator) negotiate(ctx *fasthttp.RequestCtx) (string, error) {
	if lang := string(ctx.QueryArgs().Peek("lang")); lang != "" {
		if slices.Contains(n.supported, lang) {
			return lang, nil
		}
		return "", domain.NewInvalidInputError("Unsupported language.", "lang: "+lang)
	}

	accept := string(ctx.Request.Header.Peek("Accept-Language"))
	if accept == "" {
		return n.supported[0], nil
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return n.supported[0], nil
	}
	_, index, confidence := n.matcher.Match(tags...)
	if confidence == language.No {
		return n.supported[0], nil
	}
	return n.supported[index], nil
}
