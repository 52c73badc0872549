/*
Package admin is a client for the RabbitMQ HTTP management API.

A Client talks to one broker. It can export and restore the broker
definitions, list queues, and create or remove dynamic shovels on the
default vhost. Shovels are always created on the destination broker and
pull from a source broker:

	src := admin.New("rabbit-a", "15672", "guest", "guest")
	dst := admin.New("rabbit-b", "15672", "guest", "guest")
	responses, err := dst.CreateShovels(ctx, src, true)

HTTP failures are soft: they are logged and either an empty value or the raw
*Response is returned, leaving the caller to check Response.OK. Only
transport failures (no response at all) are returned as errors.
*/
package admin
