package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := map[string]string{
		"":                                                        "",
		"  dikirim via JNE  ":                                     "dikirim via JNE",
		"<script>alert(1)</script>paket":                          "paket",
		"<b>fragile</b> & handle with care":                       "fragile & handle with care",
		"   <i></i>   ":                                           "",
		"&lt;script&gt;alert(1)&lt;/script&gt; paket &amp; kurir": "paket & kurir",
		"&lt;b&gt;tebal&lt;/b&gt;":                                "tebal",
		"&amp;lt;img src=x onerror=alert(1)&amp;gt;":              "",
		"harga < 100000":                                          "harga < 100000",
	}
	for input, want := range cases {
		assert.Equal(t, want, Text(input), "input %q", input)
	}
}

func TestTextNeverReturnsTags(t *testing.T) {
	nested := "&amp;amp;amp;amp;lt;script&amp;amp;amp;amp;gt;x"
	got := Text(nested)
	assert.NotContains(t, got, "<script")
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))

	blank := " <p></p> "
	assert.Nil(t, TextPtr(&blank))

	value := " JNE-123 "
	got := TextPtr(&value)
	if assert.NotNil(t, got) {
		assert.Equal(t, "JNE-123", *got)
	}
}
