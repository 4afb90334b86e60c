package ssml

import (
	"fmt"
	"regexp"
	"strings"
)

// colonPlaceholder stands in for ':' in attribute names while the text is
// read by the XML parser, which would otherwise split the name into a
// namespace prefix and a local part.
const colonPlaceholder = "__ssmlkit_colon__"

var (
	singleQuotedAttrRegexp  = regexp.MustCompile(`=\s*'[^']*'`)
	tagRegexp               = regexp.MustCompile(`<[^>]+>`)
	tagOpenSpaceRegexp      = regexp.MustCompile(`^<\s+`)
	tagCloseOpenSpaceRegexp = regexp.MustCompile(`^</\s+`)
	tagEndSpaceRegexp       = regexp.MustCompile(`\s+>$`)
	tagNameSpaceRegexp      = regexp.MustCompile(`^<(/?)(\S+)\s+`)
	colonAttrRegexp         = regexp.MustCompile(`(\s)([A-Za-z0-9_\-.]+):([A-Za-z0-9_\-.]+)\s*=`)
	attrRegexp              = regexp.MustCompile(`\s([^\s=<>/"']+)\s*=\s*"[^"]*"`)
)

func rejectSingleQuotedAttrs(s string) error {
	if singleQuotedAttrRegexp.MatchString(s) {
		return malformed(ErrSingleQuotedAttr, nil)
	}
	return nil
}

// normalizeTagWhitespace rewrites every <...> span so that "< speak  >"
// becomes "<speak>". Text between tags is left as is.
func normalizeTagWhitespace(s string) string {
	return tagRegexp.ReplaceAllStringFunc(s, normalizeTag)
}

func normalizeTag(tag string) string {
	tag = tagOpenSpaceRegexp.ReplaceAllString(tag, "<")
	tag = tagCloseOpenSpaceRegexp.ReplaceAllString(tag, "</")
	tag = tagEndSpaceRegexp.ReplaceAllString(tag, ">")
	return tagNameSpaceRegexp.ReplaceAllString(tag, "<${1}${2} ")
}

// escapeColonAttrNames replaces the colon of attribute names such as
// xml:lang with colonPlaceholder. Only tag spans are touched.
func escapeColonAttrNames(s string) string {
	return tagRegexp.ReplaceAllStringFunc(s, func(tag string) string {
		return colonAttrRegexp.ReplaceAllString(tag, "${1}${2}"+colonPlaceholder+"${3}=")
	})
}

// rejectDuplicateAttrs reports an attribute given twice in one tag. It
// runs on escaped text so that xml:lang and a literal placeholder name
// collide too. The XML parser keeps the last value silently.
func rejectDuplicateAttrs(s string) error {
	for _, tag := range tagRegexp.FindAllString(s, -1) {
		if strings.HasPrefix(tag, "<!") || strings.HasPrefix(tag, "<?") {
			continue
		}
		seen := make(map[string]bool)
		for _, m := range attrRegexp.FindAllStringSubmatch(tag, -1) {
			key := strings.ReplaceAll(m[1], colonPlaceholder, ":")
			if seen[key] {
				return malformed(ErrDuplicateAttr, fmt.Errorf("%q", key))
			}
			seen[key] = true
		}
	}
	return nil
}
