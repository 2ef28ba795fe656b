// Package twiml renders the messaging provider's XML reply documents.
package twiml

import "encoding/xml"

type response struct {
	XMLName  xml.Name  `xml:"Response"`
	Messages []message `xml:"Message"`
}

type message struct {
	Body string `xml:",chardata"`
}

// Reply renders a single-message reply document. An empty body renders an
// empty <Response>, which the provider treats as "send nothing".
func Reply(body string) string {
	var r response
	if body != "" {
		r.Messages = []message{{Body: body}}
	}

	// Marshalling this fixed shape cannot fail.
	b, _ := xml.Marshal(r)
	return xml.Header + string(b)
}
