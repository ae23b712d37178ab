// Package rest provides typed JSON helpers over httpclient.
//
//	resp, err := rest.Post[listenResponse](ctx, c, "/v1/listen", audio,
//		rest.WithQuery("model", "nova-2"),
//		rest.WithHeaders(map[string]string{"Content-Type": "audio/webm"}),
//	)
package rest
