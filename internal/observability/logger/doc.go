// Package logger provee un singleton de Zap con scoping por contexto.
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context scoping: cada request puede llevar un logger "scoped" con campos
//     adicionales (request_id, method, path) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En handlers/servicios (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("template created", logger.ID(tpl.ID))
package logger
