package repositories

import (
	"context"
	"time"

	"duet-server/configs"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type dbs struct {
	Redis   *redis.Client
	S3      *s3.Client
	Mongo   *mongo.Client
	MongoDB *mongo.Database
}

// DBS holds the shared client handles, initialized once at startup.
var DBS dbs

func Init() {
	initMongoDB()
	initRedis()
	initS3()
}

// initMongoDB initializes the MongoDB connection
func initMongoDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(configs.Configs.MongoDB.Uri)
	if configs.Configs.MongoDB.Username != "" {
		clientOptions = clientOptions.SetAuth(options.Credential{
			Username: configs.Configs.MongoDB.Username,
			Password: configs.Configs.MongoDB.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		configs.Logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		return
	}

	if err := client.Ping(ctx, nil); err != nil {
		configs.Logger.Fatal("Failed to ping MongoDB", zap.Error(err))
		return
	}

	DBS.Mongo = client
	DBS.MongoDB = client.Database(configs.Configs.MongoDB.Database)

	configs.Logger.Info("MongoDB connected successfully")
}

// initRedis initializes the Redis connection
func initRedis() {
	opt := &redis.Options{
		Addr:     configs.Configs.Redis.Address,
		Username: configs.Configs.Redis.Username,
		Password: configs.Configs.Redis.Password,
		DB:       configs.Configs.Redis.Database,
	}

	DBS.Redis = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := DBS.Redis.Ping(ctx).Result()
	if err != nil {
		configs.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
		return
	}

	configs.Logger.Info("Redis connected successfully", zap.String("result", result))
}

func initS3() {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(configs.Configs.S3.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				configs.Configs.S3.AccessKey,
				configs.Configs.S3.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		configs.Logger.Fatal("Failed to load AWS S3 configuration", zap.Error(err))
		return
	}

	DBS.S3 = s3.NewFromConfig(cfg)
	configs.Logger.Info("S3 client initialized successfully")
}
